package diagnostic

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/qcore-lang/qcore/pkg/ids"
)

// Frame is one entry of an evaluator call-stack snapshot, grounded on
// CWBudde-go-dws's internal/errors.StackFrame.
type Frame struct {
	Span          ids.PackageSpan
	Item          ids.StoreItemId
	CallerPackage ids.PackageId
	Functor       ids.FunctorApp
}

func (f Frame) String() string {
	return fmt.Sprintf("item %d.%d [%s] at %d:%d-%d",
		f.Item.Package, f.Item.Item, ids.SpecFromFunctorApp(f.Functor),
		f.Span.Package, f.Span.Span.Lo, f.Span.Span.Hi)
}

// StackTrace is a call-stack snapshot, oldest frame first (bottom of the
// stack), mirroring the ordering CWBudde-go-dws's StackTrace keeps.
type StackTrace []Frame

// String renders newest-first, matching StackTrace.String in the pack.
func (st StackTrace) String() string {
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Help is optional secondary guidance attached to a diagnostic.
type Help string

// EvalError is the evaluator's single fail-fast error type. Every evaluator
// failure mode is a
// distinct Code with its own constructor below; all share this shape so the
// continuation engine has one error type to snapshot frames onto.
type EvalError struct {
	Code    Code
	Span    ids.PackageSpan
	Message string
	Help    Help
	Frames  StackTrace
}

func (e *EvalError) Error() string {
	if e.Help != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Help)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithFrames returns a copy of e with its call-stack snapshot set. Used by
// the continuation engine once, at the point an error is about to propagate
// out of Eval.
func (e *EvalError) WithFrames(frames StackTrace) *EvalError {
	cp := *e
	cp.Frames = frames
	return &cp
}

func newEval(code Code, span ids.PackageSpan, help Help, format string, args ...any) *EvalError {
	return &EvalError{Code: code, Span: span, Message: fmt.Sprintf(format, args...), Help: help}
}

func ArrayTooLarge(span ids.PackageSpan) *EvalError {
	return newEval(CodeArrayTooLarge, span, "", "array length does not fit in a 64-bit signed integer")
}

func InvalidArrayLength(n int64, span ids.PackageSpan) *EvalError {
	return newEval(CodeInvalidArrayLength, span, "", "%d is not a valid array length", n)
}

func DivZero(span ids.PackageSpan) *EvalError {
	return newEval(CodeDivZero, span, "", "division by zero")
}

func EmptyRange(span ids.PackageSpan) *EvalError {
	return newEval(CodeEmptyRange, span, "", "the range is empty")
}

func InvalidIndex(index int64, span ids.PackageSpan) *EvalError {
	return newEval(CodeInvalidIndex, span, "", "%d is not a valid array index", index)
}

func IntTooLarge(span ids.PackageSpan) *EvalError {
	return newEval(CodeIntTooLarge, span, "", "integer value is too large for this operation")
}

func IndexOutOfRange(index int64, span ids.PackageSpan) *EvalError {
	return newEval(CodeIndexOutOfRange, span, "", "index %d is out of range", index)
}

func IntrinsicFail(name string, reason string, span ids.PackageSpan) *EvalError {
	return newEval(CodeIntrinsicFail, span, "", "intrinsic %q failed: %s", name, reason)
}

func InvalidRotationAngle(angle float64, span ids.PackageSpan) *EvalError {
	return newEval(CodeInvalidRotationAngle, span, "", "%v is not a valid rotation angle", angle)
}

func InvalidNegativeInt(value int64, span ids.PackageSpan) *EvalError {
	return newEval(CodeInvalidNegativeInt, span, "", "%d is negative where a non-negative integer is required", value)
}

func OutputFail(reason string, span ids.PackageSpan) *EvalError {
	return newEval(CodeOutputFail, span, "", "output failed: %s", reason)
}

func QubitUniqueness(span ids.PackageSpan) *EvalError {
	return newEval(CodeQubitUniqueness, span, "", "qubits are not unique")
}

func QubitsNotSeparable(span ids.PackageSpan) *EvalError {
	return newEval(CodeQubitsNotSeparable, span, "", "qubits are not separable")
}

func RangeStepZero(span ids.PackageSpan) *EvalError {
	return newEval(CodeRangeStepZero, span, "", "range step cannot be zero")
}

func ReleasedQubitNotZero(span ids.PackageSpan) *EvalError {
	return newEval(CodeReleasedQubitNotZero, span, "", "qubit released while not in the |0⟩ state")
}

func UnboundName(span ids.PackageSpan) *EvalError {
	return newEval(CodeUnboundName, span, "", "name is not bound in the current environment")
}

func UnknownIntrinsic(name string, span ids.PackageSpan) *EvalError {
	return newEval(CodeUnknownIntrinsic, span, "", "unknown intrinsic %q", name)
}

func UnsupportedIntrinsicType(name string, span ids.PackageSpan) *EvalError {
	return newEval(CodeUnsupportedIntrinsicType, span, "", "intrinsic %q returned a value of an unsupported type", name)
}

func UserFail(message string, span ids.PackageSpan) *EvalError {
	return &EvalError{Code: CodeUserFail, Span: span, Message: message}
}

func TypeMismatch(op string, span ids.PackageSpan) *EvalError {
	return newEval(CodeTypeMismatch, span, "this is a compiler bug, not a user error",
		"operand type mismatch in %s", op)
}

// ResolveError is one failure raised while binding a single identifier or
// path. Unlike EvalError, resolution keeps going after each one: a Resolver
// accumulates a []*ResolveError across a whole pass.
type ResolveError struct {
	Code    Code
	Span    ids.Span
	Message string
	Help    Help
	Labels  []Label
}

// Label attaches a secondary span with explanatory text to a ResolveError,
// e.g. the two conflicting `open` spans of an Ambiguous error.
type Label struct {
	Span ids.Span
	Text string
}

func (e *ResolveError) Error() string {
	if e.Help != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Help)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newResolve(code Code, span ids.Span, help Help, format string, args ...any) *ResolveError {
	return &ResolveError{Code: code, Span: span, Message: fmt.Sprintf(format, args...), Help: help}
}

func Ambiguous(name, firstOpen, secondOpen string, nameSpan, firstSpan, secondSpan ids.Span) *ResolveError {
	e := newResolve(CodeAmbiguous, nameSpan, "",
		"`%s` could refer to the item in `%s` or `%s`", name, firstOpen, secondOpen)
	e.Labels = []Label{
		{Span: firstSpan, Text: "found in this namespace"},
		{Span: secondSpan, Text: "and also in this namespace"},
	}
	return e
}

func AmbiguousPrelude(name, candidateA, candidateB string, span ids.Span) *ResolveError {
	return newResolve(CodeAmbiguousPrelude, span,
		"both namespaces are implicitly opened by the prelude",
		"`%s` could refer to the item in `%s` or an item in `%s`", name, candidateA, candidateB)
}

func Duplicate(name, namespace string, span ids.Span) *ResolveError {
	return newResolve(CodeDuplicate, span, "", "duplicate declaration of `%s` in namespace `%s`", name, namespace)
}

func DuplicateBinding(name string, span ids.Span) *ResolveError {
	return newResolve(CodeDuplicateBinding, span,
		"a name cannot shadow another name in the same pattern",
		"duplicate name `%s` in pattern", name)
}

func DuplicateIntrinsic(name string, span ids.Span) *ResolveError {
	return newResolve(CodeDuplicateIntrinsic, span,
		"each callable declared as `body intrinsic` must have a globally unique name",
		"duplicate intrinsic `%s`", name)
}

func NotFound(name string, span ids.Span) *ResolveError {
	return newResolve(CodeNotFound, span, "", "`%s` not found", name)
}

func NotAvailable(name, foundAs string, span ids.Span) *ResolveError {
	return newResolve(CodeNotAvailable, span,
		fmt.Sprintf("found a matching item `%s` that is not available for the current compilation configuration", foundAs),
		"`%s` not found", name)
}

func Unimplemented(name string, span ids.Span) *ResolveError {
	return newResolve(CodeUnimplemented, span,
		"this item is not implemented and cannot be used",
		"use of unimplemented item `%s`", name)
}

// Render formats an error for a terminal, colorizing the code and message
// the way pkg/errors.FormatError does, but through
// github.com/fatih/color rather than raw escape sequences. useColor should
// be false when the destination isn't a terminal (e.g. piped output, log
// files).
func Render(err error, useColor bool) string {
	code, message, help := "", err.Error(), Help("")
	var frames StackTrace
	var labels []Label
	switch e := err.(type) {
	case *EvalError:
		code, message, help, frames = string(e.Code), e.Message, e.Help, e.Frames
	case *ResolveError:
		code, message, help, labels = string(e.Code), e.Message, e.Help, e.Labels
	default:
		return err.Error()
	}

	bold := color.New(color.Bold)
	red := color.New(color.FgRed, color.Bold)
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	if !useColor {
		color.NoColor = true
		defer func() { color.NoColor = false }()
	}

	var sb strings.Builder
	sb.WriteString(red.Sprint("error"))
	sb.WriteString(bold.Sprintf("[%s]: %s\n", code, message))
	for _, l := range labels {
		sb.WriteString(cyan.Sprintf("  --> %d:%d: %s\n", l.Span.Lo, l.Span.Hi, l.Text))
	}
	if help != "" {
		sb.WriteString(gray.Sprintf("  help: %s\n", help))
	}
	if len(frames) > 0 {
		sb.WriteString(gray.Sprintf("stack trace:\n%s\n", frames.String()))
	}
	return sb.String()
}
