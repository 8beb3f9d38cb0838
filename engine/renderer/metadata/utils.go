package metadata

const (
	/** @brief An invalid 32-bit identifier. */
	InvalidID uint32 = 4294967295
	/** @brief An invalid 16-bit identifier. */
	InvalidIDUint16 uint16 = 65535
	/** @brief An invalid 64-bit identifier. */
	InvalidIDUint64 uint64 = 18446744073709551615
)
