package vm

import (
	"math/big"

	"github.com/nspcc-dev/michelson-go/pkg/micheline"
	"github.com/nspcc-dev/michelson-go/pkg/vm/stackitem"
)

// Ticket payload is the ticketer address, the content and the amount.

func ticketParts(t *stackitem.Item) (string, *stackitem.Item, *big.Int) {
	return stringOf(t.Child(0)), t.Child(1), integer(t.Child(2))
}

// ticket issues a ticket on behalf of the running contract.
func ticket(v *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	content, amount := ops.Items[0], ops.Items[1]
	if !content.Type().IsComparable() {
		return nil, newError(ComparabilityViolation, "%s can't be a ticket content", content.Type())
	}
	return result(stackitem.NewTicket(v.env.Self, content, integer(amount)))
}

// readTicket returns the ticket data on top of the ticket itself.
func readTicket(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	t := ops.Items[0]
	ticketer, content, amount := ticketParts(t)
	data := stackitem.NewPair(stackitem.NewAddress(ticketer),
		stackitem.NewPair(content, stackitem.NewNat(amount)))
	return result(data, t)
}

// splitTicket splits the ticket into two with the given amounts, they must
// be non-zero and sum up to the amount of the ticket.
func splitTicket(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	t, amounts := ops.Items[0], ops.Items[1]
	natPair := stackitem.NewType(stackitem.PairT, stackitem.Nat, stackitem.Nat)
	if !amounts.Type().Equals(natPair) {
		return nil, typesMismatch(natPair, amounts.Type())
	}
	ticketer, content, total := ticketParts(t)
	a, b := integer(amounts.Child(0)), integer(amounts.Child(1))
	if a.Sign() == 0 || b.Sign() == 0 || new(big.Int).Add(a, b).Cmp(total) != 0 {
		return result(stackitem.NewNone(stackitem.NewType(stackitem.PairT, t.Type(), t.Type())))
	}
	return result(stackitem.NewSome(stackitem.NewPair(
		stackitem.NewTicket(ticketer, content, a),
		stackitem.NewTicket(ticketer, content, b),
	)))
}

// joinTickets merges two tickets of the same ticketer and content.
func joinTickets(_ *VM, _ *micheline.Node, ops Operands, _ *Stack) ([]*stackitem.Item, error) {
	p := ops.Items[0]
	t1, t2 := p.Child(0), p.Child(1)
	if t1.Kind() != stackitem.TicketT || !t1.Type().Equals(t2.Type()) {
		return nil, mismatch("pair of tickets expected, got %s", p.Type())
	}
	ticketer1, content1, a := ticketParts(t1)
	ticketer2, content2, b := ticketParts(t2)
	if ticketer1 != ticketer2 || stackitem.Compare(content1, content2) != 0 {
		return result(stackitem.NewNone(t1.Type()))
	}
	return result(stackitem.NewSome(stackitem.NewTicket(ticketer1, content1, new(big.Int).Add(a, b))))
}
