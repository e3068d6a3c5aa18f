package enums

type DRMType string

const (
	DRMTypeWidevine  DRMType = "WIDEVINE"
	DRMTypePlayReady DRMType = "PLAYREADY"
)

type SelectionMode string

const (
	SelectionModeAll SelectionMode = "ALL"
	SelectionModeOne SelectionMode = "ONE"
)
