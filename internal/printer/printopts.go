package printer

import "net/url"

// Documented defaults for the brother_ql_web print options. Every field is
// always sent so an omitted option never bypasses the service's validation.
const (
	DefaultLabelSize   = "17x54"
	DefaultOrientation = "standard"
	DefaultBarcodeType = "CODE128"

	defaultMarginTop          = "24"
	defaultMarginBottom       = "24"
	defaultMarginLeft         = "35"
	defaultMarginRight        = "35"
	defaultPrintType          = "text"
	defaultFormBarcodeType    = "QR"
	defaultQRCodeSize         = "10"
	defaultQRCodeCorrection   = "L"
	defaultImageBWThreshold   = "70"
	defaultImageMode          = "grayscale"
	defaultImageFit           = "1"
	defaultPrintCount         = "1"
	defaultLogLevel           = "WARNING"
	defaultCutOnce            = "0"
	defaultBorderThickness    = "0"
	defaultBorderRoundness    = "0"
	defaultBorderDistanceX    = "0"
	defaultBorderDistanceY    = "0"
	defaultHighRes            = "0"
	defaultImageScalingFactor = "100"
	defaultImageRotation      = "0"
)

// Defaults for text rendering performed by the remote service.
const (
	DefaultFontSize    = 100
	DefaultFontFamily  = "DejaVu Math TeX Gyre,Regular"
	DefaultAlignment   = "center"
	DefaultLineSpacing = "100"
)

// PrintOptions carries the scalar print parameters shared by all print
// endpoints. All values are strings because the service consumes them as
// form/query fields verbatim. Zero values are replaced with the documented
// defaults before encoding.
//
// A PrintOptions value is transient: it exists only for the duration of a
// single outbound request and is never persisted.
type PrintOptions struct {
	LabelSize          string
	Orientation        string
	MarginTop          string
	MarginBottom       string
	MarginLeft         string
	MarginRight        string
	PrintType          string
	BarcodeType        string
	QRCodeSize         string
	QRCodeCorrection   string
	ImageBWThreshold   string
	ImageMode          string
	ImageFit           string
	PrintCount         string
	LogLevel           string
	CutOnce            string
	BorderThickness    string
	BorderRoundness    string
	BorderDistanceX    string
	BorderDistanceY    string
	HighRes            string
	ImageScalingFactor string
	ImageRotation      string
}

// withDefaults returns a copy with every empty field set to its default.
func (o PrintOptions) withDefaults() PrintOptions {
	def := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}

	def(&o.LabelSize, DefaultLabelSize)
	def(&o.Orientation, DefaultOrientation)
	def(&o.MarginTop, defaultMarginTop)
	def(&o.MarginBottom, defaultMarginBottom)
	def(&o.MarginLeft, defaultMarginLeft)
	def(&o.MarginRight, defaultMarginRight)
	def(&o.PrintType, defaultPrintType)
	def(&o.BarcodeType, defaultFormBarcodeType)
	def(&o.QRCodeSize, defaultQRCodeSize)
	def(&o.QRCodeCorrection, defaultQRCodeCorrection)
	def(&o.ImageBWThreshold, defaultImageBWThreshold)
	def(&o.ImageMode, defaultImageMode)
	def(&o.ImageFit, defaultImageFit)
	def(&o.PrintCount, defaultPrintCount)
	def(&o.LogLevel, defaultLogLevel)
	def(&o.CutOnce, defaultCutOnce)
	def(&o.BorderThickness, defaultBorderThickness)
	def(&o.BorderRoundness, defaultBorderRoundness)
	def(&o.BorderDistanceX, defaultBorderDistanceX)
	def(&o.BorderDistanceY, defaultBorderDistanceY)
	def(&o.HighRes, defaultHighRes)
	def(&o.ImageScalingFactor, defaultImageScalingFactor)
	def(&o.ImageRotation, defaultImageRotation)
	return o
}

// formValues encodes the options (with defaults applied) as the named
// form/query fields the service expects.
func (o PrintOptions) formValues() url.Values {
	o = o.withDefaults()

	v := url.Values{}
	v.Set("label_size", o.LabelSize)
	v.Set("orientation", o.Orientation)
	v.Set("margin_top", o.MarginTop)
	v.Set("margin_bottom", o.MarginBottom)
	v.Set("margin_left", o.MarginLeft)
	v.Set("margin_right", o.MarginRight)
	v.Set("print_type", o.PrintType)
	v.Set("barcode_type", o.BarcodeType)
	v.Set("qrcode_size", o.QRCodeSize)
	v.Set("qrcode_correction", o.QRCodeCorrection)
	v.Set("image_bw_threshold", o.ImageBWThreshold)
	v.Set("image_mode", o.ImageMode)
	v.Set("image_fit", o.ImageFit)
	v.Set("print_count", o.PrintCount)
	v.Set("log_level", o.LogLevel)
	v.Set("cut_once", o.CutOnce)
	v.Set("border_thickness", o.BorderThickness)
	v.Set("border_roundness", o.BorderRoundness)
	v.Set("border_distance_x", o.BorderDistanceX)
	v.Set("border_distance_y", o.BorderDistanceY)
	v.Set("high_res", o.HighRes)
	v.Set("image_scaling_factor", o.ImageScalingFactor)
	v.Set("image_rotation", o.ImageRotation)
	return v
}

// TextStyle configures how the remote service renders a text label.
// Zero values are replaced with the documented defaults before encoding.
type TextStyle struct {
	// FontSize is the point size. Defaults to 100.
	FontSize int

	// FontFamily is the font name as known to the service.
	// Defaults to "DejaVu Math TeX Gyre,Regular".
	FontFamily string

	// Alignment is one of "left", "center", "right". Defaults to "center".
	Alignment string

	// LineSpacing is a percentage encoded as a string. Defaults to "100".
	LineSpacing string
}

func (s TextStyle) withDefaults() TextStyle {
	if s.FontSize == 0 {
		s.FontSize = DefaultFontSize
	}
	if s.FontFamily == "" {
		s.FontFamily = DefaultFontFamily
	}
	if s.Alignment == "" {
		s.Alignment = DefaultAlignment
	}
	if s.LineSpacing == "" {
		s.LineSpacing = DefaultLineSpacing
	}
	return s
}

// textObject is the wire shape of one element of the JSON text array the
// print endpoint expects in its "text" form field.
type textObject struct {
	Font        string `json:"font"`
	Size        string `json:"size"`
	Inverted    bool   `json:"inverted"`
	Todo        bool   `json:"todo"`
	Align       string `json:"align"`
	LineSpacing string `json:"line_spacing"`
	Color       string `json:"color"`
	Text        string `json:"text"`
}
