package cart

// Checkout wizard steps.
const (
	StepLogin      = "/login?redirect=/shipping"
	StepShipping   = "/shipping"
	StepPayment    = "/payment"
	StepCart       = "/cart"
	StepPlaceOrder = "/placeorder"
)

// NextStep is the page a shopper in state should be sent to before an
// order can be placed. StepPlaceOrder means every precondition holds.
func NextStep(state State) string {
	switch {
	case state.UserInfo == nil:
		return StepLogin
	case state.Cart.ShippingAddress == nil || state.Cart.ShippingAddress.Address == "":
		return StepShipping
	case state.Cart.PaymentMethod == "":
		return StepPayment
	case len(state.Cart.Items) == 0:
		return StepCart
	default:
		return StepPlaceOrder
	}
}
