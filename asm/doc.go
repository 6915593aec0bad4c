// Package asm assembles Minimalmaschine source into program words.
//
// One statement per line:
//
//	[LABEL:]... [MNEMONIC [OPERAND]] [; comment]
//
// Operands are written in hexadecimal:
//
//	#n     immediate value, or relative offset for BRZ/BRC/BRN
//	(n)    data memory cell n
//	n      program address (JMP), or branch target
//	LABEL  program address of a label
//
// Wherever a number is accepted, $(expr) evaluates a Starlark expression
// at assembly time. Labels are predeclared with their addresses, and PC
// with the address of the current instruction.
//
// Mnemonics are case insensitive, labels are not.
package asm
