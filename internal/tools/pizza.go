package tools

import (
	"fmt"

	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/menu"
	"github.com/lucaferri/pizzaiolo/internal/session"
)

// Tool names offered to the model.
const (
	ToolGetMenu    = "get_pizza_menu"
	ToolAddToOrder = "add_to_order"
	ToolViewCart   = "view_cart"
	ToolRemove     = "remove_from_cart"
	ToolUpdate     = "update_cart_item"
	ToolClearCart  = "clear_cart"
)

// NewPizzaRegistry builds the registry of pizza-ordering tools over the
// given catalog and validates it.
func NewPizzaRegistry(cat *menu.Catalog) (*Registry, error) {
	r := NewRegistry()

	var regErr error
	register := func(def llm.ToolDef, h Handler) {
		if regErr == nil {
			regErr = r.Register(def, h)
		}
	}

	register(llm.ToolDef{
		Name:        ToolGetMenu,
		Description: "Shows the available pizza menu",
		Parameters:  objectSchema(nil, nil),
	}, func(args map[string]any, sess *session.Session) Result {
		return getPizzaMenu(cat)
	})

	register(llm.ToolDef{
		Name:        ToolAddToOrder,
		Description: "Adds a pizza to the cart",
		Parameters: objectSchema(map[string]any{
			"pizza_id": schemaString("Pizza ID (1, 2, 3 or name)"),
			"quantity": schemaNumber("Number of pizzas to add (default: 1)"),
		}, []string{"pizza_id"}),
	}, func(args map[string]any, sess *session.Session) Result {
		return addToOrder(cat, args, sess)
	})

	register(llm.ToolDef{
		Name:        ToolViewCart,
		Description: "Shows current cart with total",
		Parameters:  objectSchema(nil, nil),
	}, func(args map[string]any, sess *session.Session) Result {
		return viewCart(sess)
	})

	register(llm.ToolDef{
		Name:        ToolRemove,
		Description: "Removes pizzas from cart",
		Parameters: objectSchema(map[string]any{
			"pizza_id": schemaString("Pizza ID to remove"),
			"quantity": schemaNumber("Quantity to remove (default: 1)"),
		}, []string{"pizza_id"}),
	}, func(args map[string]any, sess *session.Session) Result {
		return removeFromCart(cat, args, sess)
	})

	register(llm.ToolDef{
		Name:        ToolUpdate,
		Description: "Updates pizza quantity (0 = remove)",
		Parameters: objectSchema(map[string]any{
			"pizza_id": schemaString("Pizza ID"),
			"quantity": schemaNumber("New quantity (0 = remove)"),
		}, []string{"pizza_id", "quantity"}),
	}, func(args map[string]any, sess *session.Session) Result {
		return updateCartItem(cat, args, sess)
	})

	register(llm.ToolDef{
		Name:        ToolClearCart,
		Description: "Clears entire cart",
		Parameters:  objectSchema(nil, nil),
	}, func(args map[string]any, sess *session.Session) Result {
		return clearCart(sess)
	})

	if regErr != nil {
		return nil, regErr
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func getPizzaMenu(cat *menu.Catalog) Result {
	return Result{
		Success: true,
		Data:    map[string]any{"pizzas": cat.Items()},
	}
}

func addToOrder(cat *menu.Catalog, args map[string]any, sess *session.Session) Result {
	pizza, ok := cat.Find(stringArg(args, "pizza_id"))
	if !ok {
		return Result{Error: "Pizza not found. Use: 1, 2, 3 or names"}
	}

	qty := intArg(args, "quantity", 1)
	if qty < 1 {
		qty = 1
	}
	sess.AddLines(pizza, qty)

	msg := fmt.Sprintf("🍕 %s added to cart!", pizza.Name)
	if qty > 1 {
		msg = fmt.Sprintf("🍕 %dx %s added to cart!", qty, pizza.Name)
	}
	return Result{
		Success: true,
		Message: msg,
		Data:    map[string]any{"cart_size": len(sess.Cart)},
	}
}

func viewCart(sess *session.Session) Result {
	if len(sess.Cart) == 0 {
		return Result{
			Success: true,
			Message: "Cart is empty",
			Data:    map[string]any{"cart": []session.CartItem{}, "total": 0},
		}
	}

	sum := sess.Summary()
	return Result{
		Success: true,
		Message: "Your cart:",
		Data: map[string]any{
			"cart":  sum.Items,
			"total": fmt.Sprintf("%.2f", sum.Total),
		},
	}
}

func removeFromCart(cat *menu.Catalog, args map[string]any, sess *session.Session) Result {
	pizza, ok := cat.Find(stringArg(args, "pizza_id"))
	if !ok {
		return Result{Error: "Pizza not found"}
	}

	qty := intArg(args, "quantity", 1)
	if qty < 1 {
		qty = 1
	}
	removed := sess.RemoveLines(pizza.ID, qty)
	if removed == 0 {
		return Result{Error: fmt.Sprintf("No %s in cart", pizza.Name)}
	}

	return Result{
		Success: true,
		Message: fmt.Sprintf("🗑️ Removed %d %s", removed, pizza.Name),
		Data:    map[string]any{"removed_count": removed},
	}
}

func updateCartItem(cat *menu.Catalog, args map[string]any, sess *session.Session) Result {
	pizza, ok := cat.Find(stringArg(args, "pizza_id"))
	if !ok {
		return Result{Error: "Pizza not found"}
	}

	qty := sess.SetQuantity(pizza, intArg(args, "quantity", 0))

	msg := fmt.Sprintf("📝 %s updated to %d", pizza.Name, qty)
	if qty == 0 {
		msg = fmt.Sprintf("🗑️ %s removed from cart", pizza.Name)
	}
	return Result{
		Success: true,
		Message: msg,
		Data:    map[string]any{"new_quantity": qty},
	}
}

func clearCart(sess *session.Session) Result {
	count := sess.Clear()
	return Result{
		Success: true,
		Message: fmt.Sprintf("🗑️ Cart cleared! %d items removed", count),
		Data:    map[string]any{"total": 0},
	}
}

// JSON Schema helpers

func objectSchema(properties map[string]any, required []string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func schemaString(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func schemaNumber(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}
