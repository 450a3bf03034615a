package models

// SpecRecord is the fixed output schema projected from a device's spec table.
// Any field may be null; no cross-field invariants are enforced.
type SpecRecord struct {
	Manufacturer string  `json:"manufacturer"`
	Brand        *string `json:"brand"`
	ModelName    string  `json:"model_name"`
	ModelNumber  *string `json:"model_number"`
	ReleaseDate  *string `json:"release_date"`

	MSRPUSD      *float64 `json:"msrp_usd"`
	Discontinued bool     `json:"discontinued"`
	ColorOptions []string `json:"color_options"`

	DimensionsMM   *string `json:"dimensions_mm"`
	WeightG        *int    `json:"weight_g"`
	BuildMaterials *string `json:"build_materials"`

	Display     Display     `json:"display"`
	Platform    Platform    `json:"platform"`
	Performance Performance `json:"performance"`

	StorageOptionsGB  []int `json:"storage_options_gb"`
	ExpandableStorage bool  `json:"expandable_storage"`

	BatteryCapacityMAh  *int    `json:"battery_capacity_mah"`
	ChargingWiredW      *int    `json:"charging_wired_w"`
	ChargingWirelessW   *int    `json:"charging_wireless_w"`
	FastChargingDetails *string `json:"fast_charging_details"`

	RearCameraSetup []Camera    `json:"rear_camera_setup"`
	FrontCamera     FrontCamera `json:"front_camera"`

	Connectivity Connectivity `json:"connectivity"`

	Biometrics            []string `json:"biometrics"`
	Sensors               []string `json:"sensors"`
	WaterResistanceRating *string  `json:"water_resistance_rating"`

	Source       string `json:"source"`
	LastVerified string `json:"last_verified"`
}

type Display struct {
	SizeIn      *float64    `json:"size_in"`
	Resolution  *string     `json:"resolution"`
	PPI         *int        `json:"ppi"`
	Type        *string     `json:"type"`
	RefreshRate RefreshRate `json:"refresh_rate"`
	HDRSupport  []string    `json:"hdr_support"`
	Protection  *string     `json:"protection"`
}

type RefreshRate struct {
	MaxHz    *int `json:"max_hz"`
	MinHz    *int `json:"min_hz"`
	Adaptive bool `json:"adaptive"`
}

type Platform struct {
	OS     *string `json:"os"`
	UISkin *string `json:"ui_skin"`
}

type Performance struct {
	SoC   *string `json:"soc"`
	CPU   *string `json:"cpu"`
	GPU   *string `json:"gpu"`
	RAMGB []int   `json:"ram_gb"`
}

// Camera is one rear sensor segmented out of the main camera text.
type Camera struct {
	Type        string  `json:"type"`
	SensorMP    *int    `json:"sensor_mp"`
	Aperture    *string `json:"aperture"`
	OIS         bool    `json:"ois"`
	SensorSize  *string `json:"sensor_size"`
	OpticalZoom *string `json:"optical_zoom"`
}

// Camera types, in classification priority order.
const (
	CameraUltrawide = "ultrawide"
	CameraTelephoto = "telephoto"
	CameraMain      = "main"
	CameraDepth     = "depth"
	CameraUnknown   = "unknown"
)

type FrontCamera struct {
	SensorMP *int    `json:"sensor_mp"`
	Aperture *string `json:"aperture"`
	VideoMax *string `json:"video_max"`
}

type Connectivity struct {
	SIMType       *string `json:"sim_type"`
	FiveG         bool    `json:"5g"`
	WiFi          *string `json:"wifi"`
	Bluetooth     *string `json:"bluetooth"`
	NFC           bool    `json:"nfc"`
	USBPort       *string `json:"usb_port"`
	HeadphoneJack bool    `json:"headphone_jack"`
}

// NewSpecRecord returns a record whose list fields encode as [] rather than null.
func NewSpecRecord() *SpecRecord {
	return &SpecRecord{
		ColorOptions:    []string{},
		RearCameraSetup: []Camera{},
		Biometrics:      []string{},
		Sensors:         []string{},
		Display:         Display{HDRSupport: []string{}},
	}
}
