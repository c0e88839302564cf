package niimbot

// Request codes understood by the printer firmware.
const (
	cmdGetInfo         byte = 0x40
	cmdGetRFID         byte = 0x1A
	cmdHeartbeat       byte = 0xDC
	cmdSetLabelType    byte = 0x23
	cmdSetLabelDensity byte = 0x21
	cmdStartPrint      byte = 0x01
	cmdEndPrint        byte = 0xF3
	cmdStartPagePrint  byte = 0x03
	cmdEndPagePrint    byte = 0xE3
	cmdAllowPrintClear byte = 0x20
	cmdSetDimension    byte = 0x13
	cmdSetQuantity     byte = 0x15
	cmdGetPrintStatus  byte = 0xA3
	cmdPrintLine       byte = 0x85
)

// labelTypeWithGaps is the only media type the print sequence configures.
const labelTypeWithGaps = 1

// InfoKey selects a device field for GetInfo queries. The key doubles as
// the response type offset on the wire.
type InfoKey byte

const (
	InfoDensity          InfoKey = 1
	InfoPrintSpeed       InfoKey = 2
	InfoLabelType        InfoKey = 3
	InfoLanguageType     InfoKey = 6
	InfoAutoShutdownTime InfoKey = 7
	InfoDeviceType       InfoKey = 8
	InfoSoftwareVersion  InfoKey = 9
	InfoBattery          InfoKey = 10
	InfoDeviceSerial     InfoKey = 11
	InfoHardwareVersion  InfoKey = 12
)
