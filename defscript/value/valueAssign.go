package value

import (
	"fmt"
	"slices"
	"strings"
)

// ValueAssign is the result of an assignment statement.
// Every target is bound to `Inner`.
type ValueAssign struct {
	Targets []string
	Inner   Value
}

func (_ ValueAssign) Kind() ValueKind { return AssignValueKind }

func (self ValueAssign) Display() string {
	return fmt.Sprintf("%s = %s", strings.Join(self.Targets, " = "), self.Inner.Display())
}

func (self ValueAssign) IsEqual(other Value) bool {
	otherAssign, ok := other.(ValueAssign)
	return ok && slices.Equal(self.Targets, otherAssign.Targets) && self.Inner.IsEqual(otherAssign.Inner)
}

func NewValueAssign(targets []string, inner Value) Value {
	return ValueAssign{
		Targets: targets,
		Inner:   inner,
	}
}
