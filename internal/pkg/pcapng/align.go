package pcapng

// Align4 rounds n up to the next multiple of 4.
// Every block body and option value is padded to a 32 bits boundary on the wire.
func Align4(n uint32) uint32 {
	return (n + 3) &^ 3
}
