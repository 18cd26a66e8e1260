package ledgerhw

import (
	"fmt"
	"sync"

	"github.com/karalabe/hid"

	"github.com/Bithomp/xrpl-walletkit/pkg/constants"
)

// transport exchanges one APDU with a device and returns the raw response
// including the trailing status word. The hardware implementation is hidden
// behind this so tests can script device behavior.
type transport interface {
	Exchange(apdu []byte) ([]byte, error)
	Close() error
}

// hidTransport frames APDUs over 64-byte HID reports the way Ledger devices
// expect: a fixed channel id, a frame tag, a big-endian frame sequence, and a
// big-endian payload length in the first frame.
type hidTransport struct {
	device *hid.Device
	mu     sync.Mutex
}

// openHIDTransport finds the first connected Ledger device and opens it
func openHIDTransport() (transport, error) {
	if !hid.Supported() {
		return nil, fmt.Errorf("HID is not supported on this platform")
	}

	for _, info := range hid.Enumerate(constants.LedgerVendorID, 0) {
		// the APDU endpoint is the vendor usage page; skip keyboard/U2F endpoints
		if info.UsagePage != constants.LedgerUsagePage && info.Interface != 0 {
			continue
		}
		device, err := info.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open Ledger device: %w", err)
		}
		return &hidTransport{device: device}, nil
	}

	return nil, fmt.Errorf("no Ledger device found")
}

// Exchange implements transport. One APDU in, one response out; concurrent
// exchanges on one device are serialized because interleaved frames corrupt
// the device's channel state.
func (t *hidTransport) Exchange(apdu []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.write(apdu); err != nil {
		return nil, err
	}
	return t.read()
}

func (t *hidTransport) write(apdu []byte) error {
	// the APDU stream starts with its big-endian length
	data := make([]byte, 0, len(apdu)+2)
	data = append(data, byte(len(apdu)>>8), byte(len(apdu)))
	data = append(data, apdu...)

	for seq := 0; len(data) > 0; seq++ {
		frame := make([]byte, constants.HIDFrameSize)
		frame[0] = byte(constants.APDUChannel >> 8)
		frame[1] = byte(constants.APDUChannel & 0xff)
		frame[2] = constants.APDUTag
		frame[3] = byte(seq >> 8)
		frame[4] = byte(seq)
		n := copy(frame[5:], data)
		data = data[n:]

		if _, err := t.device.Write(frame); err != nil {
			return fmt.Errorf("failed to write HID frame: %w", err)
		}
	}
	return nil
}

func (t *hidTransport) read() ([]byte, error) {
	var (
		response []byte
		total    = -1
	)

	for seq := 0; total < 0 || len(response) < total; seq++ {
		frame := make([]byte, constants.HIDFrameSize)
		n, err := t.device.Read(frame)
		if err != nil {
			return nil, fmt.Errorf("failed to read HID frame: %w", err)
		}
		if n < 5 {
			return nil, fmt.Errorf("short HID frame: %d bytes", n)
		}

		channel := int(frame[0])<<8 | int(frame[1])
		if channel != constants.APDUChannel || frame[2] != constants.APDUTag {
			return nil, fmt.Errorf("unexpected HID frame header: channel %#x tag %#x", channel, frame[2])
		}
		if got := int(frame[3])<<8 | int(frame[4]); got != seq {
			return nil, fmt.Errorf("HID frame out of order: got %d, want %d", got, seq)
		}

		payload := frame[5:n]
		if seq == 0 {
			if len(payload) < 2 {
				return nil, fmt.Errorf("first HID frame missing length")
			}
			total = int(payload[0])<<8 | int(payload[1])
			payload = payload[2:]
		}
		response = append(response, payload...)
	}

	return response[:total], nil
}

// Close implements transport
func (t *hidTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.device == nil {
		return nil
	}
	err := t.device.Close()
	t.device = nil
	return err
}
