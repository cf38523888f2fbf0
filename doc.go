/*
Package edds2dds converts Arma/DayZ EDDS (Enfusion DDS) containers back into
plain DDS streams.

An EDDS file is a DDS header (128 bytes, or 148 with the DX10 extension)
followed by a table of 8-byte block descriptors and the block bodies, stored
smallest mipmap first. Each body is either raw (COPY) or a sequence of LZ4
block-format frames ("LZ4 ") prefixed by the uncompressed size.

Decoding works on a fully loaded buffer and keeps the header bytes as they are;
the blocks are decompressed and written after it, largest mipmap first by
default. Frames that fail to decompress are skipped and reported unless a
stricter FramePolicy is set.
*/
package edds2dds
