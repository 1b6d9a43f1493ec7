// Package leb128 provides an encoder and a decoder for the unsigned Little
// Endian Base 128 format, as defined in the DWARF v4 standard, section 7.6,
// page 161 and following.
//
// Values are groups of 7 bits, least significant group first, one group per
// byte. Every byte but the last has its high order bit (the continuation
// bit) set.
//
// Besides the byte oriented API the package offers a packed view, where the
// whole byte stream is read as one big-endian integer. This is the form
// accepted and printed by the mbrtool leb128 command.
package leb128
