// Package codegen lowers a linear IR instruction list into System V
// AMD64 assembly text: it assigns each distinct IRVar a fixed,
// never-reused stack slot, then walks the instruction list once emitting
// one assembly fragment per instruction, dispatching Calls either to an
// intrinsic expansion or an external call.
package codegen

import (
	"fmt"
	"strings"

	"github.com/mini-pl/mplc/internal/intrinsics"
	"github.com/mini-pl/mplc/internal/ir"
)

// slotSize is the number of bytes reserved per IRVar.
const slotSize = 8

// int32Min and int32Max bound the range moveable via a plain `movq`
// immediate; outside it, loading a constant requires `movabsq` through
// a scratch register.
const (
	int32Min = -(1 << 31)
	int32Max = 1 << 31
)

// locals assigns every distinct IRVar encountered, in first-use order, a
// fixed %rbp-relative stack slot for its entire lifetime.
type locals struct {
	slots     map[string]string
	stackUsed int
}

func newLocals(instructions []ir.Instruction) *locals {
	l := &locals{slots: map[string]string{}}
	seen := map[string]bool{}
	bytesUsed := 0
	for _, instr := range instructions {
		for _, v := range ir.ReferencedVars(instr) {
			if v == ir.Unit || seen[v.Name] {
				continue
			}
			seen[v.Name] = true
			bytesUsed += slotSize
			l.slots[v.Name] = fmt.Sprintf("-%d(%%rbp)", bytesUsed)
		}
	}
	l.stackUsed = bytesUsed
	return l
}

func (l *locals) ref(v ir.Var) string {
	if slot, ok := l.slots[v.Name]; ok {
		return slot
	}
	panic(fmt.Sprintf("codegen: reference to unassigned IRVar %q", v.Name))
}

func (l *locals) stackBytes() int { return l.stackUsed }

// Generate renders instructions as a complete, runnable assembly
// listing, including the external declarations, prologue, body, and
// epilogue.
func Generate(instructions []ir.Instruction) string {
	var lines []string
	emit := func(line string) { lines = append(lines, line) }

	locs := newLocals(instructions)

	emit(".extern print_int")
	emit(".extern print_bool")
	emit(".extern read_int")
	emit(".global main")
	emit(".type main, @function")
	emit(".section .text")
	emit("")
	emit("main:")
	emit("pushq %rbp")
	emit("movq %rsp, %rbp")
	emit(fmt.Sprintf("subq $%d, %%rsp", locs.stackBytes()))

	for _, instr := range instructions {
		emit("# " + instr.String())
		emitInstruction(emit, locs, instr)
	}

	emit("movq %rbp, %rsp")
	emit("popq %rbp")
	emit("ret")

	return strings.Join(lines, "\n") + "\n"
}

func emitInstruction(emit func(string), locs *locals, instr ir.Instruction) {
	switch i := instr.(type) {
	case *ir.LabelInstruction:
		emit("")
		emit(fmt.Sprintf(".L%s:", i.Label.Name))
	case *ir.LoadIntConst:
		emitLoadInt(emit, locs, i)
	case *ir.LoadBoolConst:
		if i.Value {
			emit(fmt.Sprintf("movq $1, %s", locs.ref(i.Dest)))
		} else {
			emit(fmt.Sprintf("movq $0, %s", locs.ref(i.Dest)))
		}
	case *ir.Copy:
		emit(fmt.Sprintf("movq %s, %%rax", locs.ref(i.Source)))
		emit(fmt.Sprintf("movq %%rax, %s", locs.ref(i.Dest)))
	case *ir.Jump:
		emit(fmt.Sprintf("jmp .L%s", i.Label.Name))
	case *ir.CondJump:
		emit(fmt.Sprintf("cmpq $0, %s", locs.ref(i.Cond)))
		emit(fmt.Sprintf("jne .L%s", i.ThenLabel.Name))
		emit(fmt.Sprintf("jmp .L%s", i.ElseLabel.Name))
	case *ir.Call:
		emitCall(emit, locs, i)
	default:
		panic(fmt.Sprintf("codegen: unsupported IR instruction %T", instr))
	}
}

func emitLoadInt(emit func(string), locs *locals, i *ir.LoadIntConst) {
	if i.Value >= int32Min && i.Value < int32Max {
		emit(fmt.Sprintf("movq $%d, %s", i.Value, locs.ref(i.Dest)))
		return
	}
	emit(fmt.Sprintf("movabsq $%d, %%rax", i.Value))
	emit(fmt.Sprintf("movq %%rax, %s", locs.ref(i.Dest)))
}

func emitCall(emit func(string), locs *locals, i *ir.Call) {
	if fn, ok := intrinsics.All[i.Fun.Name]; ok {
		argRefs := make([]string, len(i.Args))
		for idx, arg := range i.Args {
			argRefs[idx] = locs.ref(arg)
		}
		fn(intrinsics.Args{ArgRefs: argRefs, ResultRegister: "%rax", Emit: emit})
		emit(fmt.Sprintf("movq %%rax, %s", locs.ref(i.Dest)))
		return
	}

	if len(i.Args) > 0 {
		emit(fmt.Sprintf("movq %s, %%rdi", locs.ref(i.Args[0])))
	}
	emit(fmt.Sprintf("call %s", i.Fun.Name))
	emit(fmt.Sprintf("movq %%rax, %s", locs.ref(i.Dest)))
}
