package types

// EEPROM offsets (§6), little-endian, fixed for the life of the layout.
const (
	OffsetVccConst = 0 // float32, 4 bytes; 0 => treat as 1.1
	OffsetMode     = 4 // uint8, 1 byte; last fire-cluster mode
	OffsetVolt     = 5 // float32, 4 bytes
	OffsetWatt     = 9 // uint8, 1 byte
	OffsetAmp      = 10 // uint8, 1 byte
	OffsetOhm      = 11 // float32, 4 bytes
	OffsetBattRes  = 15 // float32, 4 bytes; later variant only

	// LayoutSizeEarly is the image size before BattRes persistence existed.
	LayoutSizeEarly = OffsetBattRes
	// LayoutSizeLater adds the BattRes field.
	LayoutSizeLater = OffsetBattRes + 4
)
