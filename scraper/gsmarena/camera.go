package gsmarena

import (
	"regexp"
	"strings"

	"phonespecs-scraper/models"
)

var (
	cameraStartRe = regexp.MustCompile(`\d+\s*MP`)
	cameraMPRe    = regexp.MustCompile(`(?i)(\d+)\s*MP`)
	apertureRe    = regexp.MustCompile(`(?i)f/(\d+\.?\d*)`)
	sensorSizeRe  = regexp.MustCompile(`(?i)1/(\d+\.?\d*)"`)
	opticalZoomRe = regexp.MustCompile(`(?i)(\d+)x optical zoom`)
)

// cameraKeywords is checked in order; the first keyword found decides the type.
var cameraKeywords = []struct {
	keyword string
	kind    string
}{
	{"ultrawide", models.CameraUltrawide},
	{"telephoto", models.CameraTelephoto},
	{"wide", models.CameraMain},
	{"depth", models.CameraDepth},
}

// parseCameraSetup splits a main camera description into one segment per
// "<N> MP" occurrence and describes each sensor.
func parseCameraSetup(text string) []models.Camera {
	cameras := []models.Camera{}
	starts := cameraStartRe.FindAllStringIndex(text, -1)
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		cameras = append(cameras, parseCamera(text[loc[0]:end]))
	}
	return cameras
}

func parseCamera(segment string) models.Camera {
	cam := models.Camera{
		Type: classifyCamera(segment),
		OIS:  strings.Contains(strings.ToLower(segment), "ois"),
	}
	if m := cameraMPRe.FindStringSubmatch(segment); m != nil {
		cam.SensorMP = firstNumber[int](m[1])
	}
	if m := apertureRe.FindStringSubmatch(segment); m != nil {
		v := "f/" + m[1]
		cam.Aperture = &v
	}
	if m := sensorSizeRe.FindStringSubmatch(segment); m != nil {
		v := `1/` + m[1] + `"`
		cam.SensorSize = &v
	}
	if m := opticalZoomRe.FindStringSubmatch(segment); m != nil {
		v := m[1] + "x"
		cam.OpticalZoom = &v
	}
	return cam
}

func classifyCamera(segment string) string {
	lower := strings.ToLower(segment)
	for _, k := range cameraKeywords {
		if strings.Contains(lower, k.keyword) {
			return k.kind
		}
	}
	return models.CameraUnknown
}
