package wpt

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Enumerated values are indices into the value lists of the grammar tables,
// so the constants below follow the table order.

// ResponseCode is the outcome reported by every response message.
type ResponseCode uint8

const (
	ResponseCodeOK ResponseCode = iota
	ResponseCodeOKCertificateExpiresSoon
	ResponseCodeOKNewSessionEstablished
	ResponseCodeOKOldSessionJoined
	ResponseCodeOKPowerToleranceConfirmed
	ResponseCodeWarningAuthorizationSelectionInvalid
	ResponseCodeWarningCertificateExpired
	ResponseCodeWarningCertificateNotYetValid
	ResponseCodeWarningCertificateRevoked
	ResponseCodeWarningCertificateValidationError
	ResponseCodeWarningChallengeInvalid
	ResponseCodeWarningEIMAuthorizationFailure
	ResponseCodeWarningEMSPUnknown
	ResponseCodeWarningEVPowerProfileViolation
	ResponseCodeWarningGeneralPnCAuthorizationError
	ResponseCodeWarningNoCertificateAvailable
	ResponseCodeWarningNoContractMatchingPCIDFound
	ResponseCodeWarningPowerToleranceNotConfirmed
	ResponseCodeWarningScheduleRenegotiationFailed
	ResponseCodeWarningStandbyNotAllowed
	ResponseCodeWarningWPT
	ResponseCodeFailed
	ResponseCodeFailedAssociationError
	ResponseCodeFailedContactorError
	ResponseCodeFailedEVPowerProfileInvalid
	ResponseCodeFailedEVPowerProfileViolation
	ResponseCodeFailedMeteringSignatureNotValid
	ResponseCodeFailedNoEnergyTransferServiceSelected
	ResponseCodeFailedNoServiceRenegotiationSupported
	ResponseCodeFailedPauseNotAllowed
	ResponseCodeFailedPowerDeliveryNotApplied
	ResponseCodeFailedPowerToleranceNotConfirmed
	ResponseCodeFailedScheduleRenegotiation
	ResponseCodeFailedScheduleSelectionInvalid
	ResponseCodeFailedSequenceError
	ResponseCodeFailedServiceIDInvalid
	ResponseCodeFailedServiceSelectionInvalid
	ResponseCodeFailedSignatureError
	ResponseCodeFailedUnknownSession
	ResponseCodeFailedWrongChargeParameter
)

func (c ResponseCode) String() string { return enumString("responseCode", "ResponseCode", int(c)) }

func (c ResponseCode) MarshalYAML() (any, error) { return c.String(), nil }

func (c *ResponseCode) UnmarshalYAML(n *yaml.Node) error {
	v, err := unmarshalEnum(n, "responseCode")
	if err != nil {
		return err
	}
	*c = ResponseCode(v)
	return nil
}

// Processing tells whether a party has finished the current step.
type Processing uint8

const (
	ProcessingFinished Processing = iota
	ProcessingOngoing
	ProcessingOngoingWaitingForCustomerInteraction
)

func (p Processing) String() string { return enumString("processing", "Processing", int(p)) }

func (p Processing) MarshalYAML() (any, error) { return p.String(), nil }

func (p *Processing) UnmarshalYAML(n *yaml.Node) error {
	v, err := unmarshalEnum(n, "processing")
	if err != nil {
		return err
	}
	*p = Processing(v)
	return nil
}

// EVSENotification is the action the supply equipment asks of the vehicle.
type EVSENotification uint8

const (
	NotificationPause EVSENotification = iota
	NotificationExitStandby
	NotificationTerminate
	NotificationScheduleRenegotiation
	NotificationServiceRenegotiation
	NotificationMeteringConfirmation
)

func (n EVSENotification) String() string {
	return enumString("evseNotification", "EVSENotification", int(n))
}

func (n EVSENotification) MarshalYAML() (any, error) { return n.String(), nil }

func (n *EVSENotification) UnmarshalYAML(node *yaml.Node) error {
	v, err := unmarshalEnum(node, "evseNotification")
	if err != nil {
		return err
	}
	*n = EVSENotification(v)
	return nil
}

// FinePositioningMethod selects how the vehicle coil is brought over the pad.
type FinePositioningMethod uint8

const (
	FinePositioningManual FinePositioningMethod = iota
	FinePositioningLFTxEV
	FinePositioningLFTxPrimaryDevice
	FinePositioningLPE
	FinePositioningOther
)

func (m FinePositioningMethod) String() string {
	return enumString("finePositioningMethod", "FinePositioningMethod", int(m))
}

func (m FinePositioningMethod) MarshalYAML() (any, error) { return m.String(), nil }

func (m *FinePositioningMethod) UnmarshalYAML(n *yaml.Node) error {
	v, err := unmarshalEnum(n, "finePositioningMethod")
	if err != nil {
		return err
	}
	*m = FinePositioningMethod(v)
	return nil
}

// PairingMethod selects how vehicle and primary device confirm each other.
type PairingMethod uint8

const (
	PairingExternalConfirmation PairingMethod = iota
	PairingLPE
	PairingObservable
	PairingOther
)

func (m PairingMethod) String() string { return enumString("pairingMethod", "PairingMethod", int(m)) }

func (m PairingMethod) MarshalYAML() (any, error) { return m.String(), nil }

func (m *PairingMethod) UnmarshalYAML(n *yaml.Node) error {
	v, err := unmarshalEnum(n, "pairingMethod")
	if err != nil {
		return err
	}
	*m = PairingMethod(v)
	return nil
}

// AlignmentCheckMethod selects how coil alignment is verified before transfer.
type AlignmentCheckMethod uint8

const (
	AlignmentCheckLFSystem AlignmentCheckMethod = iota
	AlignmentCheckPowerBased
	AlignmentCheckOther
)

func (m AlignmentCheckMethod) String() string {
	return enumString("alignmentCheckMethod", "AlignmentCheckMethod", int(m))
}

func (m AlignmentCheckMethod) MarshalYAML() (any, error) { return m.String(), nil }

func (m *AlignmentCheckMethod) UnmarshalYAML(n *yaml.Node) error {
	v, err := unmarshalEnum(n, "alignmentCheckMethod")
	if err != nil {
		return err
	}
	*m = AlignmentCheckMethod(v)
	return nil
}

// ChargeDiagnostics is the vehicle's view of the running power transfer.
type ChargeDiagnostics uint8

const (
	ChargeDiagnosticsNormal ChargeDiagnostics = iota
	ChargeDiagnosticsWarning
	ChargeDiagnosticsPause
	ChargeDiagnosticsTerminate
)

func (d ChargeDiagnostics) String() string {
	return enumString("chargeDiagnostics", "ChargeDiagnostics", int(d))
}

func (d ChargeDiagnostics) MarshalYAML() (any, error) { return d.String(), nil }

func (d *ChargeDiagnostics) UnmarshalYAML(n *yaml.Node) error {
	v, err := unmarshalEnum(n, "chargeDiagnostics")
	if err != nil {
		return err
	}
	*d = ChargeDiagnostics(v)
	return nil
}

func enumValues(enum string) []string {
	s, err := Schema()
	if err != nil {
		return nil
	}
	values, _ := s.Enum(enum)
	return values
}

func enumString(enum, typeName string, v int) string {
	if values := enumValues(enum); v >= 0 && v < len(values) {
		return values[v]
	}
	return fmt.Sprintf("%s(%d)", typeName, v)
}

func unmarshalEnum(n *yaml.Node, enum string) (int, error) {
	var s string
	if err := n.Decode(&s); err != nil {
		return 0, err
	}
	if i := slices.Index(enumValues(enum), s); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("line %d: %q is not a %s value", n.Line, s, enum)
}
