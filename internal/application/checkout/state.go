// internal/application/checkout/state.go
package checkout

import "fmt"

// State is the checkout lifecycle.
//
//	Idle -> TokenRequested -> TokenReady -> InstanceReady -> PaymentSubmitting -> PaymentSucceeded
//	                       \-> TokenUnavailable                              \-> PaymentFailed -> InstanceReady (after reset)
type State int

const (
	Idle State = iota
	TokenRequested
	TokenReady
	TokenUnavailable
	InstanceReady
	PaymentSubmitting
	PaymentSucceeded
	PaymentFailed
)

var stateNames = map[State]string{
	Idle:              "Idle",
	TokenRequested:    "TokenRequested",
	TokenReady:        "TokenReady",
	TokenUnavailable:  "TokenUnavailable",
	InstanceReady:     "InstanceReady",
	PaymentSubmitting: "PaymentSubmitting",
	PaymentSucceeded:  "PaymentSucceeded",
	PaymentFailed:     "PaymentFailed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// transitions lists every legal edge. A token restart (TokenRequested) is
// legal from anywhere except while a payment is in flight.
var transitions = map[State][]State{
	Idle:              {TokenRequested},
	TokenRequested:    {TokenRequested, TokenReady, TokenUnavailable},
	TokenReady:        {TokenRequested, InstanceReady, TokenUnavailable},
	TokenUnavailable:  {TokenRequested},
	InstanceReady:     {TokenRequested, PaymentSubmitting},
	PaymentSubmitting: {PaymentSucceeded, PaymentFailed, InstanceReady},
	PaymentSucceeded:  {TokenRequested},
	PaymentFailed:     {TokenRequested, InstanceReady, TokenUnavailable},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ProductStatus tracks cart resolution so a view can tell "no items" from
// "still resolving".
type ProductStatus int

const (
	ProductsLoading ProductStatus = iota
	ProductsLoaded
	ProductsError
)

func (p ProductStatus) String() string {
	switch p {
	case ProductsLoading:
		return "Loading"
	case ProductsLoaded:
		return "Loaded"
	case ProductsError:
		return "Error"
	default:
		return fmt.Sprintf("ProductStatus(%d)", int(p))
	}
}
