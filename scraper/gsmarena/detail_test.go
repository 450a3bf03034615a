package gsmarena

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonespecs-scraper/fetch"
	"phonespecs-scraper/models"
	"phonespecs-scraper/utils"
)

func quietLogger() *utils.Logger {
	l := utils.NewLogger()
	l.SetOutput(io.Discard)
	return l
}

// scriptedFetcher replays canned responses per URL; the last response repeats.
type scriptedFetcher struct {
	responses map[string][]scripted
	calls     map[string]int
}

type scripted struct {
	status int
	body   string
	err    error
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{responses: map[string][]scripted{}, calls: map[string]int{}}
}

func (f *scriptedFetcher) on(url string, rs ...scripted) *scriptedFetcher {
	f.responses[url] = rs
	return f
}

func (f *scriptedFetcher) Fetch(_ context.Context, url string) (*fetch.Page, error) {
	rs, ok := f.responses[url]
	if !ok {
		return &fetch.Page{URL: url, StatusCode: 404}, nil
	}
	i := min(f.calls[url], len(rs)-1)
	f.calls[url]++
	r := rs[i]
	if r.err != nil {
		return nil, r.err
	}
	return &fetch.Page{URL: url, StatusCode: r.status, Body: []byte(r.body)}, nil
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(b)
}

var verifiedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func testExtractor(f fetch.Fetcher, delays *[]time.Duration) *Extractor {
	opts := DefaultExtractorOptions()
	opts.Now = func() time.Time { return verifiedAt }
	opts.Sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return NewExtractor(f, quietLogger(), opts)
}

const pixelURL = "https://www.gsmarena.com/google_pixel_8_pro-12545.php"

func TestExtractPixel8Pro(t *testing.T) {
	f := newScriptedFetcher().on(pixelURL, scripted{status: 200, body: readFixture(t, "pixel_8_pro.html")})
	var delays []time.Duration

	got, err := testExtractor(f, &delays).Extract(context.Background(), pixelURL)
	require.NoError(t, err)
	assert.Empty(t, delays)

	want := &models.SpecRecord{
		Manufacturer:   "Google",
		Brand:          ptr("Pixel"),
		ModelName:      "8 Pro",
		ModelNumber:    ptr("GC3VE, G1MNW"),
		ReleaseDate:    ptr("2023-10-12"),
		MSRPUSD:        ptr(999.0),
		ColorOptions:   []string{"Obsidian", "Porcelain", "Bay", "Mint"},
		DimensionsMM:   ptr("162.6 x 76.5 x 8.8 mm"),
		WeightG:        ptr(213),
		BuildMaterials: ptr("Glass front (Gorilla Glass Victus 2), glass back (Gorilla Glass Victus 2), aluminum frame"),
		Display: models.Display{
			SizeIn:     ptr(6.7),
			Resolution: ptr("1344 x 2992"),
			PPI:        ptr(489),
			Type:       ptr("LTPO OLED"),
			RefreshRate: models.RefreshRate{
				MaxHz:    ptr(120),
				MinHz:    ptr(1),
				Adaptive: true,
			},
			HDRSupport: []string{"HDR10"},
			Protection: ptr("Corning Gorilla Glass Victus 2"),
		},
		Platform: models.Platform{OS: ptr("Android 14, up to 7 major Android upgrades")},
		Performance: models.Performance{
			SoC:   ptr("Google Tensor G3 (4 nm)"),
			CPU:   ptr("Nona-core (1x3.0 GHz Cortex-X3 & 4x2.45 GHz Cortex-A715 & 4x2.15 GHz Cortex-A510)"),
			GPU:   ptr("Immortalis-G715s MC10"),
			RAMGB: []int{12},
		},
		StorageOptionsGB:    []int{128, 256, 512, 1024},
		ExpandableStorage:   false,
		BatteryCapacityMAh:  ptr(5050),
		ChargingWiredW:      ptr(30),
		ChargingWirelessW:   ptr(23),
		FastChargingDetails: ptr("50% in 30 min"),
		RearCameraSetup: []models.Camera{
			{Type: models.CameraMain, SensorMP: ptr(50), Aperture: ptr("f/1.7"), OIS: true, SensorSize: ptr(`1/1.31"`)},
			{Type: models.CameraTelephoto, SensorMP: ptr(48), Aperture: ptr("f/2.8"), OIS: true, SensorSize: ptr(`1/2.55"`), OpticalZoom: ptr("5x")},
			{Type: models.CameraUltrawide, SensorMP: ptr(48), Aperture: ptr("f/2.0"), SensorSize: ptr(`1/2.0"`)},
		},
		FrontCamera: models.FrontCamera{
			SensorMP: ptr(12),
			Aperture: ptr("f/2.2"),
			VideoMax: ptr("4K@24/30/60fps"),
		},
		Connectivity: models.Connectivity{
			SIMType:       ptr("Nano-SIM and eSIM"),
			FiveG:         true,
			WiFi:          ptr("Wi-Fi 802.11 a/b/g/n/ac/6e/7, tri-band"),
			Bluetooth:     ptr("5.3, A2DP, LE, aptX HD"),
			NFC:           true,
			USBPort:       ptr("USB Type-C 3.2"),
			HeadphoneJack: false,
		},
		Biometrics:            []string{"fingerprint"},
		Sensors:               []string{"Fingerprint (under display", "optical)", "accelerometer", "gyro", "proximity", "compass", "barometer"},
		WaterResistanceRating: ptr("IP68"),
		Source:                pixelURL,
		LastVerified:          "2024-05-01T10:00:00.000000",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpecTableOrder(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(readFixture(t, "pixel_8_pro.html")))
	require.NoError(t, err)

	table, err := ParseSpecTable(doc)
	require.NoError(t, err)

	assert.Equal(t, "Google Pixel 8 Pro", table.Name)
	assert.Equal(t, []string{
		"Network", "Launch", "Body", "Display", "Platform", "Memory", "Main Camera",
		"Selfie camera", "Sound", "Comms", "Features", "Battery", "Misc",
	}, table.Categories())
	assert.Equal(t, []string{"Triple", "Features", "Video"}, table.Keys("Main Camera"))
	assert.Equal(t, "IP68 dust/water resistant (up to 1.5m for 30 min)", table.Get("Body", ""))
	assert.Equal(t, "", table.Get("Tests", "Performance"))
}

func TestExtractMissingName(t *testing.T) {
	f := newScriptedFetcher().on(pixelURL, scripted{status: 200, body: `<html><body><div id="specs-list"></div></body></html>`})
	var delays []time.Duration

	_, err := testExtractor(f, &delays).Extract(context.Background(), pixelURL)
	assert.ErrorIs(t, err, ErrNoPhoneName)
}

func TestExtractRetriesRateLimit(t *testing.T) {
	f := newScriptedFetcher().on(pixelURL, scripted{status: 429})
	var delays []time.Duration

	_, err := testExtractor(f, &delays).Extract(context.Background(), pixelURL)
	require.Error(t, err)
	assert.True(t, fetch.IsStatus(err, 429))
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}, delays)
	assert.Equal(t, 4, f.calls[pixelURL])
}

func TestExtractRecoversAfterRateLimit(t *testing.T) {
	f := newScriptedFetcher().on(pixelURL,
		scripted{status: 429},
		scripted{status: 429},
		scripted{status: 200, body: readFixture(t, "pixel_8_pro.html")},
	)
	var delays []time.Duration

	rec, err := testExtractor(f, &delays).Extract(context.Background(), pixelURL)
	require.NoError(t, err)
	assert.Equal(t, "Google", rec.Manufacturer)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, delays)
}

func TestExtractOtherStatusFailsImmediately(t *testing.T) {
	for _, status := range []int{404, 500, 503} {
		f := newScriptedFetcher().on(pixelURL, scripted{status: status})
		var delays []time.Duration

		_, err := testExtractor(f, &delays).Extract(context.Background(), pixelURL)
		assert.True(t, fetch.IsStatus(err, status), "status %d", status)
		assert.Empty(t, delays)
		assert.Equal(t, 1, f.calls[pixelURL])
	}
}

func TestExtractTransportErrorFailsImmediately(t *testing.T) {
	boom := errors.New("connection reset")
	f := newScriptedFetcher().on(pixelURL, scripted{err: boom})
	var delays []time.Duration

	_, err := testExtractor(f, &delays).Extract(context.Background(), pixelURL)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, delays)
}

func TestProjectEmptyTable(t *testing.T) {
	rec, err := Project(NewSpecTable("Nokia 3310"), "src", verifiedAt)
	require.NoError(t, err)

	assert.Equal(t, "Nokia", rec.Manufacturer)
	assert.Equal(t, ptr("3310"), rec.Brand)
	assert.Nil(t, rec.ReleaseDate)
	assert.Nil(t, rec.WeightG)
	assert.Nil(t, rec.StorageOptionsGB)
	assert.Nil(t, rec.Performance.RAMGB)
	assert.Empty(t, rec.RearCameraSetup)
	assert.NotNil(t, rec.ColorOptions)
	assert.True(t, rec.ExpandableStorage, "absent card slot is not \"No\"")
	assert.True(t, rec.Connectivity.HeadphoneJack)
	assert.False(t, rec.Connectivity.NFC)
}

func TestProjectRecoversRulePanic(t *testing.T) {
	saved := specRules
	t.Cleanup(func() { specRules = saved })
	specRules = append([]fieldRule{}, saved...)
	specRules = append(specRules, fieldRule{"broken", deviceName, func(string, *models.SpecRecord) {
		panic("index out of range")
	}})

	rec, err := Project(NewSpecTable("Google Pixel 8"), "src", verifiedAt)
	assert.Nil(t, rec)
	assert.ErrorContains(t, err, "extract broken")
}

func TestExtractAppleModelName(t *testing.T) {
	const url = "https://www.gsmarena.com/apple_iphone_14_pro-11860.php"
	page := `<html><body>
<h1 class="specs-phone-name-title">Apple iPhone 14 Pro</h1>
<div id="specs-list">
<table><tr><th>Launch</th><td class="ttl">Status</td><td class="nfo">Available. Released 2022, September 16</td></tr></table>
</div></body></html>`
	f := newScriptedFetcher().on(url, scripted{status: 200, body: page})
	var delays []time.Duration

	rec, err := testExtractor(f, &delays).Extract(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "Apple", rec.Manufacturer)
	assert.Equal(t, ptr("iPhone"), rec.Brand)
	assert.Equal(t, "14 Pro", rec.ModelName)
	assert.Equal(t, ptr("2022-09-16"), rec.ReleaseDate)
}
