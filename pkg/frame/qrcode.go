package frame

import (
	"github.com/skip2/go-qrcode"

	"github.com/matzehuels/scannable/pkg/errors"
)

// QRCode encodes Options.Value as a QR code symbol surrounded by a quiet
// zone of Options.Margin unset modules.
type QRCode struct{}

// Frame implements Provider.
func (QRCode) Frame(opts Options) (Frame, error) {
	opts = opts.WithDefaults()
	if opts.Value == "" {
		return Frame{}, errors.New(errors.ErrCodeInvalidInput, "value cannot be empty")
	}
	margin := opts.MarginOrDefault()
	if margin < 0 {
		return Frame{}, errors.New(errors.ErrCodeInvalidInput, "margin must not be negative: %d", margin)
	}
	level, err := recoveryLevel(opts.Level)
	if err != nil {
		return Frame{}, err
	}

	q, err := qrcode.New(opts.Value, level)
	if err != nil {
		return Frame{}, errors.Wrap(errors.ErrCodeEncode, err, "encode %d-byte value at level %s", len(opts.Value), opts.Level)
	}
	// The quiet zone is ours to size, so the library's fixed border is off.
	q.DisableBorder = true
	bits := q.Bitmap()

	size := len(bits) + 2*margin
	buf := make([]Module, size*size)
	for y, row := range bits {
		for x, on := range row {
			buf[(y+margin)*size+x+margin] = Module(on)
		}
	}
	return Frame{Size: size, Buffer: buf}, nil
}

func recoveryLevel(l Level) (qrcode.RecoveryLevel, error) {
	parsed, err := ParseLevel(string(l))
	if err != nil {
		return 0, err
	}
	switch parsed {
	case LevelLow:
		return qrcode.Low, nil
	case LevelQuartile:
		return qrcode.High, nil
	case LevelHigh:
		return qrcode.Highest, nil
	default:
		return qrcode.Medium, nil
	}
}

var _ Provider = QRCode{}
