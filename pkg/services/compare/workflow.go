package compare

import (
	"context"
	"fmt"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/store/selections"
)

// State is the comparison workflow's position. The cycle has no terminal
// state; it repeats per operator interaction.
type State string

const (
	// StateIdle means no selections have been loaded yet.
	StateIdle State = "idle"
	// StateReady means at least one saved selection is available.
	StateReady State = "ready"
	// StateAwaitingPair means the operator is choosing selections.
	StateAwaitingPair State = "awaiting_pair"
	// StateComparing means exactly two selections are locked in and the
	// queries are running.
	StateComparing State = "comparing"
)

// Workflow tracks one operator's pass through the comparison cycle:
// Idle -> Ready -> AwaitingPair -> Comparing -> Ready.
type Workflow struct {
	state     State
	available []domain.SavedSelection
	chosen    []domain.SavedSelection
}

func NewWorkflow() *Workflow {
	return &Workflow{state: StateIdle}
}

func (w *Workflow) State() State {
	return w.state
}

func (w *Workflow) Available() []domain.SavedSelection {
	return w.available
}

func (w *Workflow) Chosen() []domain.SavedSelection {
	return w.chosen
}

// LoadSelections moves Idle to Ready when the store holds at least one
// selection. An empty store keeps the workflow Idle; a store failure is a
// PersistenceError and also keeps it Idle.
func (w *Workflow) LoadSelections(ctx context.Context, store selections.Store) error {
	sels, err := store.Load(ctx)
	if err != nil {
		return err
	}
	w.available = sels
	if len(sels) > 0 {
		w.state = StateReady
	}
	return nil
}

// Begin moves Ready to AwaitingPair.
func (w *Workflow) Begin() error {
	if w.state != StateReady {
		return fmt.Errorf("cannot begin choosing from state %s", w.state)
	}
	w.state = StateAwaitingPair
	return nil
}

// Choose locks in the operator's picks. Anything other than exactly two
// keeps the workflow in AwaitingPair and returns inline guidance.
func (w *Workflow) Choose(sels ...domain.SavedSelection) error {
	if w.state != StateAwaitingPair {
		return fmt.Errorf("cannot choose selections from state %s", w.state)
	}
	if len(sels) != 2 {
		return &domain.ValidationError{
			Msg: fmt.Sprintf("select exactly two date ranges to compare, got %d", len(sels)),
		}
	}
	w.chosen = sels
	w.state = StateComparing
	return nil
}

// Complete returns to Ready once both queries finished, whether they
// succeeded or partially failed.
func (w *Workflow) Complete() {
	w.chosen = nil
	w.state = StateReady
}
