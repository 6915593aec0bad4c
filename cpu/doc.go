// Package cpu implements the Minimalmaschine: a 4-bit accumulator machine
// with sixteen words of program memory and sixteen cells of data memory.
//
// Each program word is eight bits wide. The upper nibble selects one of
// the twelve opcodes of the fixed instruction table, the lower nibble is
// the operand: an immediate value, a data memory address, a program
// address or a relative branch offset, depending on the opcode.
//
// The machine has three registers (the accumulator A, the instruction
// register IR and the data register DR), a program counter, and the
// Carry, Zero and Negative status flags. The Cpu executes one word per
// Tick, and halts once the program counter runs past the last word.
package cpu
