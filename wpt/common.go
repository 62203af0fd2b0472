package wpt

import (
	"fmt"
	"math"
)

// CLReqControlMode is the empty closed-loop control mode of a request.
type CLReqControlMode struct{}

// CLResControlMode is the empty closed-loop control mode of a response.
type CLResControlMode struct{}

// MessageHeader opens every request and response.
type MessageHeader struct {
	SessionID HexBinary
	// TimeStamp is seconds since the Unix epoch.
	TimeStamp uint64
	Signature *Signature
}

// RationalNumber is Value * 10^Exponent.
type RationalNumber struct {
	Exponent int8
	Value    int16
}

func (r RationalNumber) String() string {
	return fmt.Sprintf("%de%d", r.Value, r.Exponent)
}

// Float returns the number as a float64.
func (r RationalNumber) Float() float64 {
	return float64(r.Value) * math.Pow10(int(r.Exponent))
}

type DisplayParameters struct {
	PresentSOC               *uint8
	MinimumSOC               *uint8
	TargetSOC                *uint8
	MaximumSOC               *uint8
	RemainingTimeToTargetSOC *uint32
	ChargingComplete         *bool
	BatteryEnergyCapacity    *RationalNumber
	InletHot                 *bool
}

type MeterInfo struct {
	MeterID                       string
	ChargedEnergyReadingWh        uint64
	BPTDischargedEnergyReadingWh  *uint64 `exi:"BPT_DischargedEnergyReadingWh"`
	CapacitiveEnergyReadingVARh   *uint64
	BPTInductiveEnergyReadingVARh *uint64 `exi:"BPT_InductiveEnergyReadingVARh"`
	MeterSignature                *HexBinary
	MeterStatus                   *int16
	MeterTimestamp                *uint64
}

type EVSEStatus struct {
	NotificationMaxDelay uint16
	EVSENotification     EVSENotification
}

type DetailedTax struct {
	TaxRuleID uint32
	Amount    RationalNumber
}

type Receipt struct {
	TimeAnchor              uint64
	EnergyPrice             *RationalNumber
	OccupancyPrice          *RationalNumber
	AdditionalServicesPrice *RationalNumber
	OverstayPrice           *RationalNumber
	TaxCosts                []DetailedTax
}
