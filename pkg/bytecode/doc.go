// Package bytecode decodes and disassembles JVM method bytecode.
//
// The instruction set is described by a single metadata table mapping
// each opcode to its mnemonic and typed operand layout. Decoding and
// disassembly are both driven off that table, so fixed-length
// instructions never need per-opcode code.
//
// Key properties:
//   - One decode routine, DecodeAt, serves linear disassembly and the
//     interpreter's fetch step
//   - Operands carry their kind (pool index, variable slot, branch
//     offset, immediate) so consumers don't re-derive meaning from the
//     opcode
//   - Unassigned opcode bytes decode to a named placeholder instead of
//     failing, keeping listings useful on damaged input
//
// # Variable-Length Instructions
//
// Three instructions fall outside the table's fixed layouts:
//
//   - tableswitch: 0-3 alignment padding bytes, then default/low/high
//     words and a dense jump table of high-low+1 offsets
//
//   - lookupswitch: the same padding, then default/npairs words and
//     sorted match/offset pairs
//
//   - wide: a prefix that widens the following instruction's variable
//     slot operand to two bytes (and iinc's increment alongside)
//
// Switch padding aligns the first payload word to a 4-byte boundary
// relative to the start of the code array, so the decoded size of a
// switch depends on the offset it appears at.
//
// # Disassembly
//
// Disassemble produces javap-shaped listings. When a constant pool is
// supplied, pool-indexed operands gain symbolic comments such as
// "Method java/io/PrintStream.println:(Ljava/lang/String;)V"; branch
// and switch targets render as absolute code offsets.
package bytecode
