package wpt

// CoordinateXYZ is a position in millimetres relative to the coil centre.
type CoordinateXYZ struct {
	CoordX int16 `exi:"Coord_X"`
	CoordY int16 `exi:"Coord_Y"`
	CoordZ int16 `exi:"Coord_Z"`
}

// LFTransmitterData describes one low-frequency positioning transmitter.
type LFTransmitterData struct {
	TransmitterIdentifier uint8
	EIRP                  RationalNumber
	Coordinate            CoordinateXYZ
}

// LFReceiverData describes one low-frequency positioning receiver.
type LFReceiverData struct {
	ReceiverIdentifier uint8
	Coordinate         CoordinateXYZ
}

// LFRxRSSI is the signal strength a receiver measured from one transmitter.
type LFRxRSSI struct {
	TransmitterIdentifier uint8
	RSSI                  RationalNumber
}

// LFRxRSSIList holds the readings of one data package.
type LFRxRSSIList struct {
	RxRSSI []LFRxRSSI `exi:"WPT_LF_RxRSSI"`
}

// LFDataPackage is one round of signal strength readings at a receiver.
type LFDataPackage struct {
	PackageIndex       uint32
	ReceiverIdentifier uint8
	RxRSSIList         LFRxRSSIList `exi:"WPT_LF_RxRSSIList"`
}

// LFDataPackageList carries the positioning measurements of one exchange.
type LFDataPackageList struct {
	DataPackage []LFDataPackage `exi:"WPT_LF_DataPackage"`
}

// TxRxSpecData gives the pulse timing of the low-frequency transmitters.
type TxRxSpecData struct {
	TxSwitchingTime        uint16
	TxPulsePeriod          uint16
	RxAmplitudeSensitivity *RationalNumber
}

// TxRxPulseOrder is one slot of a pulse sequence.
type TxRxPulseOrder struct {
	IndexNumber    uint8
	TxRxIdentifier uint8
}

// TxRxPackageSpecData holds the pulse sequence of one positioning package.
// A package has at most 255 pulses.
type TxRxPackageSpecData struct {
	PulseSequenceOrder    []TxRxPulseOrder
	PulseSeparationTime   uint16
	PackageSeparationTime uint16
}

// LFSystemSetupData describes a low-frequency positioning system.
type LFSystemSetupData struct {
	TransmitterSetupData []LFTransmitterData `exi:"LF_TransmitterSetupData"`
	ReceiverSetupData    []LFReceiverData    `exi:"LF_ReceiverSetupData"`
	TxRxSpecData         TxRxSpecData        `exi:"LF_TxRxSpecData"`
	TxRxPackageSpecData  TxRxPackageSpecData `exi:"LF_TxRxPackageSpecData"`
}

// FinePositioningMethodList lists supported fine positioning methods in preference order.
type FinePositioningMethodList struct {
	Methods []FinePositioningMethod `exi:"WPT_FinePositioningMethod"`
}

// PairingMethodList lists supported pairing methods in preference order.
type PairingMethodList struct {
	Methods []PairingMethod `exi:"WPT_PairingMethod"`
}

// AlignmentCheckMethodList lists supported alignment check methods in preference order.
type AlignmentCheckMethodList struct {
	Methods []AlignmentCheckMethod `exi:"WPT_AlignmentCheckMethod"`
}

// EVPCPowerControlParameter reports the vehicle side of the power control loop.
type EVPCPowerControlParameter struct {
	EVPCCoilCurrentRequest       RationalNumber
	EVPCCoilCurrentInformation   RationalNumber
	EVPCCurrentOutputInformation RationalNumber
	EVPCVoltageOutputInformation RationalNumber
}

// SPCPowerControlParameter reports the primary device side of the power control loop.
type SPCPowerControlParameter struct {
	SPCPrimaryDeviceCoilCurrentInformation RationalNumber
	SPCPrimaryDeviceCurrentInformation     RationalNumber
	SPCPrimaryDeviceVoltageInformation     RationalNumber
}

// FinePositioningSetupReq offers the vehicle's positioning, pairing and
// alignment methods.
type FinePositioningSetupReq struct {
	Header                            MessageHeader
	EVDeviceFinePositioningMethodList FinePositioningMethodList
	EVDevicePairingMethodList         PairingMethodList
	EVDeviceAlignmentCheckMethodList  AlignmentCheckMethodList
	NaturalFrequency                  RationalNumber
	DeviceOffset                      uint16
	EVLFSystemSetupData               *LFSystemSetupData `exi:"EV_LF_SystemSetupData"`
}

// FinePositioningSetupRes selects one method of each kind.
type FinePositioningSetupRes struct {
	Header                  MessageHeader
	ResponseCode            ResponseCode
	SDFinePositioningMethod FinePositioningMethod
	SDPairingMethod         PairingMethod
	SDAlignmentCheckMethod  AlignmentCheckMethod
	NaturalFrequency        RationalNumber
	DeviceOffset            uint16
	SDLFSystemSetupData     *LFSystemSetupData `exi:"SD_LF_SystemSetupData"`
}

type FinePositioningReq struct {
	Header         MessageHeader
	EVProcessing   Processing
	LFDataPackages *LFDataPackageList `exi:"WPT_LF_DataPackageList"`
}

type FinePositioningRes struct {
	Header         MessageHeader
	ResponseCode   ResponseCode
	EVSEProcessing Processing
	LFDataPackages *LFDataPackageList `exi:"WPT_LF_DataPackageList"`
}

type PairingReq struct {
	Header         MessageHeader
	EVProcessing   Processing
	ObservableCode *uint32
}

type PairingRes struct {
	Header         MessageHeader
	ResponseCode   ResponseCode
	EVSEProcessing Processing
	ObservableCode *uint32
}

type ChargeParameterDiscoveryReq struct {
	Header                 MessageHeader
	EVPCMaxReceivablePower RationalNumber
	EVPCNaturalFrequency   RationalNumber
	EVPCDeviceLocalControl bool
	EVPCMaxGroundClearance *uint16
}

type ChargeParameterDiscoveryRes struct {
	Header                MessageHeader
	ResponseCode          ResponseCode
	EVSEProcessing        Processing
	SPCMaxOutputPower     RationalNumber
	SPCMinOutputPower     RationalNumber
	SPCNaturalFrequency   RationalNumber
	SPCDeviceLocalControl bool
	SPCIsLocalized        bool
	SPCMinDelay           *uint16
}

type AlignmentCheckReq struct {
	Header            MessageHeader
	EVProcessing      Processing
	TargetCoilCurrent *RationalNumber
}

type AlignmentCheckRes struct {
	Header           MessageHeader
	ResponseCode     ResponseCode
	EVSEProcessing   Processing
	PowerTransmitted *RationalNumber
}

// ChargeLoopReq is sent periodically while power is transferred.
type ChargeLoopReq struct {
	Header                    MessageHeader
	DisplayParameters         *DisplayParameters
	MeterInfoRequested        bool
	EVPCPowerRequest          RationalNumber
	EVPCPowerOutput           RationalNumber
	EVPCChargeDiagnostics     ChargeDiagnostics
	EVPCOperatingFrequency    *RationalNumber
	EVPCPowerControlParameter *EVPCPowerControlParameter
}

type ChargeLoopRes struct {
	Header                   MessageHeader
	ResponseCode             ResponseCode
	EVSEStatus               *EVSEStatus
	MeterInfo                *MeterInfo
	Receipt                  *Receipt
	SPCOperatingFrequency    RationalNumber
	SPCPowerControlParameter *SPCPowerControlParameter
}
