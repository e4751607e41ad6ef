package ir

// ReferencedVars returns every Var an instruction mentions, in the order
// they appear on the instruction (dest last where relevant). Label
// pseudo-instructions reference none.
func ReferencedVars(instr Instruction) []Var {
	switch i := instr.(type) {
	case *LoadIntConst:
		return []Var{i.Dest}
	case *LoadBoolConst:
		return []Var{i.Dest}
	case *Copy:
		return []Var{i.Source, i.Dest}
	case *Call:
		vars := append([]Var{i.Fun}, i.Args...)
		return append(vars, i.Dest)
	case *Jump:
		return nil
	case *CondJump:
		return []Var{i.Cond}
	case *LabelInstruction:
		return nil
	default:
		return nil
	}
}
