package gsmarena

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"phonespecs-scraper/models"
)

var (
	refreshRateRe  = regexp.MustCompile(`(\d+)Hz`)
	wirelessRe     = regexp.MustCompile(`(?i)(\d+)W\s*wireless`)
	wiredRe        = regexp.MustCompile(`(?i)(\d+)W\s*wired`)
	fastChargingRe = regexp.MustCompile(`(?i)(\d+%\s*in\s*\d+\s*min)`)
	wifiRe         = regexp.MustCompile(`Wi-Fi\s*(.*)`)
	selfieApRe     = regexp.MustCompile(`f/\d+\.?\d*`)
	ipRatingRe     = regexp.MustCompile(`(?i)(IP\d+)`)
)

var (
	hdrFormats       = []string{"HDR10", "Dolby Vision"}
	biometricSensors = []string{"fingerprint", "face id"}
)

// fieldRule fills one part of a SpecRecord from one piece of the table.
// Rules are independent of each other and run in table order.
type fieldRule struct {
	field  string
	source func(t *SpecTable) string
	apply  func(v string, rec *models.SpecRecord)
}

func cell(category, key string) func(*SpecTable) string {
	return func(t *SpecTable) string { return t.Get(category, key) }
}

func wholeCategory(category string) func(*SpecTable) string {
	return func(t *SpecTable) string { return t.CategoryText(category) }
}

func firstCellExcept(category string, skip ...string) func(*SpecTable) string {
	return func(t *SpecTable) string {
		key, ok := t.FirstKeyExcept(category, skip...)
		if !ok {
			return ""
		}
		return t.Get(category, key)
	}
}

func deviceName(t *SpecTable) string { return t.Name }

var specRules = []fieldRule{
	{"name", deviceName, func(v string, r *models.SpecRecord) {
		r.Manufacturer, r.Brand, r.ModelName = parseName(v)
	}},
	{"model_number", cell("Misc", "Models"), func(v string, r *models.SpecRecord) {
		r.ModelNumber = optString(v)
	}},
	{"release_date", cell("Launch", "Status"), func(v string, r *models.SpecRecord) {
		r.ReleaseDate = parseReleaseDate(v)
	}},
	{"discontinued", cell("Launch", "Status"), func(v string, r *models.SpecRecord) {
		r.Discontinued = strings.Contains(v, "Discontinued")
	}},
	{"msrp_usd", cell("Misc", "Price"), func(v string, r *models.SpecRecord) {
		r.MSRPUSD = firstNumber[float64](v)
	}},
	{"color_options", cell("Misc", "Colors"), func(v string, r *models.SpecRecord) {
		r.ColorOptions = splitList(v)
	}},

	{"dimensions_mm", cell("Body", "Dimensions"), func(v string, r *models.SpecRecord) {
		r.DimensionsMM = optString(beforeFirst(v, "("))
	}},
	{"weight_g", cell("Body", "Weight"), func(v string, r *models.SpecRecord) {
		r.WeightG = firstNumber[int](v)
	}},
	{"build_materials", cell("Body", "Build"), func(v string, r *models.SpecRecord) {
		r.BuildMaterials = optString(v)
	}},
	{"water_resistance_rating", wholeCategory("Body"), func(v string, r *models.SpecRecord) {
		if m := ipRatingRe.FindStringSubmatch(v); m != nil {
			r.WaterResistanceRating = &m[1]
		}
	}},
	{"connectivity.sim_type", cell("Body", "SIM"), func(v string, r *models.SpecRecord) {
		r.Connectivity.SIMType = optString(v)
	}},

	{"display.size_in", cell("Display", "Size"), func(v string, r *models.SpecRecord) {
		r.Display.SizeIn = firstNumber[float64](v)
	}},
	{"display.resolution", cell("Display", "Resolution"), func(v string, r *models.SpecRecord) {
		r.Display.Resolution = optString(strings.ReplaceAll(beforeFirst(v, ","), " pixels", ""))
	}},
	{"display.ppi", cell("Display", "Resolution"), func(v string, r *models.SpecRecord) {
		r.Display.PPI = firstNumber[int](afterLast(v, "("))
	}},
	{"display.type", cell("Display", "Type"), func(v string, r *models.SpecRecord) {
		r.Display.Type = optString(beforeFirst(v, ","))
	}},
	{"display.refresh_rate", cell("Display", "Type"), func(v string, r *models.SpecRecord) {
		if m := refreshRateRe.FindStringSubmatch(v); m != nil {
			r.Display.RefreshRate.MaxHz = firstNumber[int](m[1])
		}
		if strings.Contains(v, "LTPO") {
			one := 1
			r.Display.RefreshRate.MinHz = &one
			r.Display.RefreshRate.Adaptive = true
		}
	}},
	{"display.hdr_support", cell("Display", "Type"), func(v string, r *models.SpecRecord) {
		r.Display.HDRSupport = containedIn(v, hdrFormats)
	}},
	{"display.protection", cell("Display", "Protection"), func(v string, r *models.SpecRecord) {
		r.Display.Protection = optString(v)
	}},

	{"platform.os", cell("Platform", "OS"), func(v string, r *models.SpecRecord) {
		r.Platform.OS = optString(v)
	}},
	{"performance.soc", cell("Platform", "Chipset"), func(v string, r *models.SpecRecord) {
		r.Performance.SoC = optString(v)
	}},
	{"performance.cpu", cell("Platform", "CPU"), func(v string, r *models.SpecRecord) {
		r.Performance.CPU = optString(v)
	}},
	{"performance.gpu", cell("Platform", "GPU"), func(v string, r *models.SpecRecord) {
		r.Performance.GPU = optString(v)
	}},

	{"memory", cell("Memory", "Internal"), func(v string, r *models.SpecRecord) {
		r.StorageOptionsGB, r.Performance.RAMGB = parseMemory(v)
	}},
	{"expandable_storage", cell("Memory", "Card slot"), func(v string, r *models.SpecRecord) {
		r.ExpandableStorage = v != "No"
	}},

	{"battery_capacity_mah", cell("Battery", "Type"), func(v string, r *models.SpecRecord) {
		r.BatteryCapacityMAh = firstNumber[int](v)
	}},
	{"charging", cell("Battery", "Charging"), func(v string, r *models.SpecRecord) {
		if m := wiredRe.FindStringSubmatch(v); m != nil {
			r.ChargingWiredW = firstNumber[int](m[1])
		}
		if m := wirelessRe.FindStringSubmatch(v); m != nil {
			r.ChargingWirelessW = firstNumber[int](m[1])
		}
		if m := fastChargingRe.FindStringSubmatch(v); m != nil {
			r.FastChargingDetails = &m[1]
		}
	}},

	{"rear_camera_setup", firstCellExcept("Main Camera", "Features", "Video"), func(v string, r *models.SpecRecord) {
		r.RearCameraSetup = parseCameraSetup(v)
	}},
	{"front_camera", cell("Selfie camera", "Single"), func(v string, r *models.SpecRecord) {
		r.FrontCamera.SensorMP = firstNumber[int](v)
		if m := selfieApRe.FindString(v); m != "" {
			r.FrontCamera.Aperture = &m
		}
	}},
	{"front_camera.video_max", cell("Selfie camera", "Video"), func(v string, r *models.SpecRecord) {
		r.FrontCamera.VideoMax = optString(beforeFirst(v, ","))
	}},

	{"connectivity.5g", cell("Network", "Technology"), func(v string, r *models.SpecRecord) {
		r.Connectivity.FiveG = strings.Contains(v, "5G")
	}},
	{"connectivity.wifi", cell("Comms", "WLAN"), func(v string, r *models.SpecRecord) {
		if m := wifiRe.FindStringSubmatch(v); m != nil {
			wifi := strings.TrimSpace("Wi-Fi " + strings.TrimSpace(m[1]))
			r.Connectivity.WiFi = &wifi
		}
	}},
	{"connectivity.bluetooth", cell("Comms", "Bluetooth"), func(v string, r *models.SpecRecord) {
		r.Connectivity.Bluetooth = optString(v)
	}},
	{"connectivity.nfc", cell("Comms", "NFC"), func(v string, r *models.SpecRecord) {
		r.Connectivity.NFC = v == "Yes"
	}},
	{"connectivity.usb_port", cell("Comms", "USB"), func(v string, r *models.SpecRecord) {
		r.Connectivity.USBPort = optString(v)
	}},
	{"connectivity.headphone_jack", cell("Sound", "3.5mm jack"), func(v string, r *models.SpecRecord) {
		r.Connectivity.HeadphoneJack = v != "No"
	}},

	{"biometrics", cell("Features", "Sensors"), func(v string, r *models.SpecRecord) {
		r.Biometrics = containedIn(strings.ToLower(v), biometricSensors)
	}},
	{"sensors", cell("Features", "Sensors"), func(v string, r *models.SpecRecord) {
		r.Sensors = splitList(v)
	}},
}

// containedIn returns the candidates that occur in text, in candidate order.
func containedIn(text string, candidates []string) []string {
	out := []string{}
	for _, c := range candidates {
		if strings.Contains(text, c) {
			out = append(out, c)
		}
	}
	return out
}

// Project maps a spec table onto a SpecRecord. A rule that panics fails
// the whole record with an error naming the rule.
func Project(t *SpecTable, source string, verified time.Time) (rec *models.SpecRecord, err error) {
	rec = models.NewSpecRecord()

	var current string
	defer func() {
		if p := recover(); p != nil {
			rec, err = nil, fmt.Errorf("extract %s: %v", current, p)
		}
	}()

	for _, rule := range specRules {
		current = rule.field
		rule.apply(rule.source(t), rec)
	}

	rec.Source = source
	rec.LastVerified = verified.Format("2006-01-02T15:04:05.000000")
	return rec, nil
}
