package editor

// Operation selects which prompt template a passage edit uses. The
// operations differ only in the instructions sent to the model.
type Operation string

const (
	OpRewrite  Operation = "rewrite"
	OpRephrase Operation = "rephrase"
	OpExpand   Operation = "expand"
)

// Valid reports whether op is one of the supported operations.
func (op Operation) Valid() bool {
	switch op {
	case OpRewrite, OpRephrase, OpExpand:
		return true
	}
	return false
}
