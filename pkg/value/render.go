package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Render formats a Value the way the demo CLI prints an Eval result:
// scalars in their natural form, collections bracketed and
// comma-joined, callables by their underlying item.
func Render(v Value) string {
	switch x := v.(type) {
	case Unit:
		return "()"
	case Bool:
		return strconv.FormatBool(bool(x))
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case BigInt:
		return x.V.String()
	case Double:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case String:
		return string(x)
	case PauliValue:
		return renderPauli(x.P)
	case ResultValue:
		return renderResult(x.R)
	case QubitValue:
		return fmt.Sprintf("Qubit%d", x.Q)
	case Range:
		return renderRange(x)
	case Array:
		return renderList("[", "]", x.PeekItems())
	case Tuple:
		return renderList("(", ")", x.Items)
	case Global:
		return fmt.Sprintf("<callable %d.%d>", x.Item.Package, x.Item.Item)
	case Closure:
		return fmt.Sprintf("<closure %d.%d>", x.Item.Package, x.Item.Item)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func renderPauli(p Pauli) string {
	switch p {
	case PauliX:
		return "PauliX"
	case PauliY:
		return "PauliY"
	case PauliZ:
		return "PauliZ"
	default:
		return "PauliI"
	}
}

func renderResult(r Result) string {
	if r == ResultOne {
		return "One"
	}
	return "Zero"
}

func renderRange(r Range) string {
	var sb strings.Builder
	if r.Start != nil {
		sb.WriteString(strconv.FormatInt(*r.Start, 10))
	}
	sb.WriteString("..")
	if r.Step != DefaultRangeStep {
		sb.WriteString(strconv.FormatInt(r.Step, 10))
		sb.WriteString("..")
	}
	if r.End != nil {
		sb.WriteString(strconv.FormatInt(*r.End, 10))
	}
	return sb.String()
}

func renderList(open, close string, items []Value) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = Render(it)
	}
	return open + strings.Join(parts, ", ") + close
}
