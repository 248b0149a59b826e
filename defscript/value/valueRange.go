package value

import "fmt"

type ValueRange struct {
	Start          int64
	End            int64
	EndIsInclusive bool
}

func (self ValueRange) Kind() ValueKind {
	if self.EndIsInclusive {
		return InclusiveRangeValueKind
	}
	return RangeValueKind
}

func (self ValueRange) Display() string {
	if self.EndIsInclusive {
		return fmt.Sprintf("%d..=%d", self.Start, self.End)
	}
	return fmt.Sprintf("%d..%d", self.Start, self.End)
}

func (self ValueRange) IsEqual(other Value) bool {
	otherRange, ok := other.(ValueRange)
	return ok &&
		self.Start == otherRange.Start &&
		self.End == otherRange.End &&
		self.EndIsInclusive == otherRange.EndIsInclusive
}

func NewValueRange(start int64, end int64, endIsInclusive bool) Value {
	return ValueRange{
		Start:          start,
		End:            end,
		EndIsInclusive: endIsInclusive,
	}
}
