// Package diagnostic renders evaluator and resolver failures as stable-coded,
// span-carrying errors, in the spirit of pkg/errors
// (FormatError, WithLineInfo, WithSuggestion) and CWBudde-go-dws's
// internal/errors stack-trace formatting, but backed by github.com/fatih/color
// instead of hand-rolled ANSI escapes.
package diagnostic

// Code is a stable diagnostic identifier. Codes are never renumbered or
// reused across releases; new failure modes get new codes.
type Code string

// Eval error codes.
const (
	CodeArrayTooLarge             Code = "Qsc.Eval.ArrayTooLarge"
	CodeInvalidArrayLength        Code = "Qsc.Eval.InvalidArrayLength"
	CodeDivZero                   Code = "Qsc.Eval.DivZero"
	CodeEmptyRange                Code = "Qsc.Eval.EmptyRange"
	CodeInvalidIndex              Code = "Qsc.Eval.InvalidIndex"
	CodeIntTooLarge               Code = "Qsc.Eval.IntTooLarge"
	CodeIndexOutOfRange           Code = "Qsc.Eval.IndexOutOfRange"
	CodeIntrinsicFail             Code = "Qsc.Eval.IntrinsicFail"
	CodeInvalidRotationAngle      Code = "Qsc.Eval.InvalidRotationAngle"
	CodeInvalidNegativeInt        Code = "Qsc.Eval.InvalidNegativeInt"
	CodeOutputFail                Code = "Qsc.Eval.OutputFail"
	CodeQubitUniqueness           Code = "Qsc.Eval.QubitUniqueness"
	CodeQubitsNotSeparable         Code = "Qsc.Eval.QubitsNotSeparable"
	CodeRangeStepZero             Code = "Qsc.Eval.RangeStepZero"
	CodeReleasedQubitNotZero      Code = "Qsc.Eval.ReleasedQubitNotZero"
	CodeUnboundName               Code = "Qsc.Eval.UnboundName"
	CodeUnknownIntrinsic          Code = "Qsc.Eval.UnknownIntrinsic"
	CodeUnsupportedIntrinsicType  Code = "Qsc.Eval.UnsupportedIntrinsicType"
	CodeUserFail                  Code = "Qsc.Eval.UserFail"
	CodeTypeMismatch              Code = "Qsc.Eval.TypeMismatch"
)

// Resolve error codes.
const (
	CodeAmbiguous         Code = "Qsc.Resolve.Ambiguous"
	CodeAmbiguousPrelude  Code = "Qsc.Resolve.AmbiguousPrelude"
	CodeDuplicate         Code = "Qsc.Resolve.Duplicate"
	CodeDuplicateBinding  Code = "Qsc.Resolve.DuplicateBinding"
	CodeDuplicateIntrinsic Code = "Qsc.Resolve.DuplicateIntrinsic"
	CodeNotFound          Code = "Qsc.Resolve.NotFound"
	CodeNotAvailable      Code = "Qsc.Resolve.NotAvailable"
	CodeUnimplemented     Code = "Qsc.Resolve.Unimplemented"
)
