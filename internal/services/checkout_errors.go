package services

import (
	"errors"
	"fmt"
)

// Stage is how far a checkout got on the backend.
type Stage int

const (
	StageComposing Stage = iota
	StageHeaderCreated
	StageLinesAttached
	StageCompleted
	StageInvoiced
)

func (s Stage) String() string {
	switch s {
	case StageComposing:
		return "composing"
	case StageHeaderCreated:
		return "header_created"
	case StageLinesAttached:
		return "lines_attached"
	case StageCompleted:
		return "completed"
	case StageInvoiced:
		return "invoiced"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Step names a checkout step.
type Step string

const (
	StepCreateHeader   Step = "create_header"
	StepAttachProducts Step = "attach_products"
	StepAttachServices Step = "attach_services"
	StepSettle         Step = "settle"
	StepComplete       Step = "complete"
	StepInvoice        Step = "invoice"
)

var userMessages = map[Step]string{
	StepCreateHeader:   "The order could not be created. Nothing was saved, please try again.",
	StepAttachProducts: "The order was created but some products could not be added to it.",
	StepAttachServices: "The order was created but some services could not be added to it.",
	StepSettle:         "The order was interrupted before it could be completed.",
	StepComplete:       "The order items were saved but the order could not be marked as completed.",
	StepInvoice:        "The order was completed but its invoice could not be generated.",
}

// OrchestrationStepError reports the checkout step that failed and the stage
// the order had already reached. Nothing is rolled back: OrderID (zero when
// no header was created) identifies the partial order.
type OrchestrationStepError struct {
	Step    Step
	Reached Stage
	OrderID int64
	Err     error
}

// Error implements the error interface for OrchestrationStepError.
func (e *OrchestrationStepError) Error() string {
	if e.OrderID == 0 {
		return fmt.Sprintf("checkout failed at %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("checkout of order %d failed at %s after reaching %s: %v", e.OrderID, e.Step, e.Reached, e.Err)
}

// Unwrap exposes the underlying failure.
func (e *OrchestrationStepError) Unwrap() error {
	return e.Err
}

// UserMessage is a message fit for end users; it carries no technical detail.
func (e *OrchestrationStepError) UserMessage() string {
	if msg, ok := userMessages[e.Step]; ok {
		return msg
	}
	return "The order could not be processed."
}

// IsInvoiceOnlyFailure reports whether err means the order was completed and
// only invoice generation failed.
func IsInvoiceOnlyFailure(err error) bool {
	var stepErr *OrchestrationStepError
	return errors.As(err, &stepErr) && stepErr.Step == StepInvoice && stepErr.Reached == StageCompleted
}

var (
	// ErrEmptyCart is returned when checking out a cart without items.
	ErrEmptyCart = errors.New("cart has no products or services")
	// ErrNoClient is returned when checking out without a selected client.
	ErrNoClient = errors.New("no client selected")
)
