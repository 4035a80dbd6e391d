package llvm

import llvm "tinygo.org/x/go-llvm"

// defaultTriple is the explicit target triple this backend lowers
// against. It is never the ambient host triple: a fixed triple keeps
// usize's width, struct layout, and generated IR reproducible across
// machines and CI runners, matching spec §4.4's requirement that the
// data layout be set deterministically rather than picked up from
// whatever machine happens to run the compiler.
const defaultTriple = "x86_64-unknown-linux-gnu"

// targetLayout carries the facts derived from a resolved target triple
// that the rest of the backend needs before lowering anything: usize's
// bit width (the pointer-sized integer register) and the llvm.TargetData
// whose string form gets stamped onto the module.
type targetLayout struct {
	triple    string
	data      llvm.TargetData
	usizeBits int
}

// configureTarget resolves triple against LLVM's target registry and
// builds a llvm.TargetMachine/TargetData pair the same way a real
// `clang -target <triple>` invocation would, then stamps the module's
// data layout and target triple so later `@sizeof`/`@alignof` queries and
// struct ABI packing agree with the target instead of the host LLVM was
// built for.
func configureTarget(mod llvm.Module, triple string) targetLayout {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargets()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()

	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		// Unknown triple (e.g. this LLVM build was configured without the
		// requested backend): fall back to a fixed 64-bit layout rather
		// than leaving the module's data layout unset.
		mod.SetTarget(triple)
		return targetLayout{triple: triple, usizeBits: 64}
	}

	machine := target.CreateTargetMachine(triple, "generic", "",
		llvm.CodeGenLevelDefault, llvm.RelocDefault, llvm.CodeModelDefault)
	data := machine.CreateTargetData()

	mod.SetTarget(triple)
	mod.SetDataLayout(data.String())

	return targetLayout{triple: triple, data: data, usizeBits: data.PointerSize() * 8}
}

// usizeType returns the integer type `usize` lowers to, derived from the
// configured target's pointer width rather than hardcoded to i64 — a
// 32-bit triple gets a 32-bit usize, matching the C99 backend's `size_t`.
func (e *Emitter) usizeType() llvm.Type {
	if e.target.usizeBits <= 32 {
		return e.ctxLL.Int32Type()
	}
	return e.ctxLL.Int64Type()
}
