package niimbot

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
)

// GetInfo queries one device field and returns the raw value, decoded
// as a big-endian integer.
func (c *Client) GetInfo(ctx context.Context, key InfoKey) (_ uint64, err error) {
	defer deferWrap(&err)

	res, err := c.transceive(ctx, cmdGetInfo, []byte{byte(key)}, byte(key))
	if err != nil {
		return
	}
	return beUint(res.data), nil
}

// DeviceSerial returns the printer serial number as a hex string.
func (c *Client) DeviceSerial(ctx context.Context) (_ string, err error) {
	defer deferWrap(&err)

	res, err := c.transceive(ctx, cmdGetInfo, []byte{byte(InfoDeviceSerial)}, byte(InfoDeviceSerial))
	if err != nil {
		return
	}
	return hex.EncodeToString(res.data), nil
}

// SoftwareVersion returns the firmware version as a fixed-point value,
// e.g. 321 on the wire is version 3.21.
func (c *Client) SoftwareVersion(ctx context.Context) (float64, error) {
	return c.versionInfo(ctx, InfoSoftwareVersion)
}

// HardwareVersion returns the hardware revision as a fixed-point value.
func (c *Client) HardwareVersion(ctx context.Context) (float64, error) {
	return c.versionInfo(ctx, InfoHardwareVersion)
}

func (c *Client) versionInfo(ctx context.Context, key InfoKey) (_ float64, err error) {
	defer deferWrap(&err)

	v, err := c.GetInfo(ctx, key)
	if err != nil {
		return
	}
	return float64(v) / 100, nil
}

// GetRFID queries the label roll tag. A nil tag with nil error means no
// tag is present.
func (c *Client) GetRFID(ctx context.Context) (_ *RFIDTag, err error) {
	defer deferWrap(&err)

	res, err := c.transceive(ctx, cmdGetRFID, []byte{0x01}, 1)
	if err != nil {
		return
	}
	return decodeRFID(res.data)
}

// Heartbeat polls printer state. Which fields come back depends on the
// firmware's payload variant; absent fields are nil.
func (c *Client) Heartbeat(ctx context.Context) (_ Heartbeat, err error) {
	defer deferWrap(&err)

	res, err := c.transceive(ctx, cmdHeartbeat, []byte{0x01}, 1)
	if err != nil {
		return
	}
	return decodeHeartbeat(res.data), nil
}

// SetLabelType configures media handling, type 1 to 3.
func (c *Client) SetLabelType(ctx context.Context, n int) (_ bool, err error) {
	defer deferWrap(&err)

	if n < 1 || n > 3 {
		err = errors.New("label type out of range 1-3")
		return
	}
	return c.setFlag(ctx, cmdSetLabelType, []byte{byte(n)}, 16)
}

// SetLabelDensity configures print darkness, level 1 to 5. Some models
// only accept up to 3; the printer reports false for unsupported levels.
func (c *Client) SetLabelDensity(ctx context.Context, n int) (_ bool, err error) {
	defer deferWrap(&err)

	if n < 1 || n > 5 {
		err = errors.New("density out of range 1-5")
		return
	}
	return c.setFlag(ctx, cmdSetLabelDensity, []byte{byte(n)}, 16)
}

// StartPrint begins a job of totalPages physical pages. The page count
// rides little-endian inside an otherwise zeroed seven byte body.
func (c *Client) StartPrint(ctx context.Context, totalPages int) (_ bool, err error) {
	defer deferWrap(&err)

	if totalPages < 0 || totalPages > 0xFFFF {
		err = errors.New("page count out of range")
		return
	}
	body := make([]byte, 7)
	binary.LittleEndian.PutUint16(body[1:3], uint16(totalPages))
	return c.setFlag(ctx, cmdStartPrint, body, 1)
}

// EndPrint tears the job down after the last page.
func (c *Client) EndPrint(ctx context.Context) (bool, error) {
	return c.setFlag(ctx, cmdEndPrint, []byte{0x01}, 1)
}

// StartPagePrint opens one page of the current job.
func (c *Client) StartPagePrint(ctx context.Context) (bool, error) {
	return c.setFlag(ctx, cmdStartPagePrint, []byte{0x01}, 1)
}

// EndPagePrint closes the current page.
func (c *Client) EndPagePrint(ctx context.Context) (bool, error) {
	return c.setFlag(ctx, cmdEndPagePrint, []byte{0x01}, 1)
}

// AllowPrintClear acknowledges a finished page. Not supported by all
// models; B21 class firmware replies with the unimplemented type.
func (c *Client) AllowPrintClear(ctx context.Context) (bool, error) {
	return c.setFlag(ctx, cmdAllowPrintClear, []byte{0x01}, 16)
}

// SetDimension declares the page size in dots, orientation-swapped
// relative to the raster: height first, then width, then copies.
func (c *Client) SetDimension(ctx context.Context, height, width, copies int) (_ bool, err error) {
	defer deferWrap(&err)

	body := make([]byte, 6)
	binary.BigEndian.PutUint16(body[0:2], uint16(height))
	binary.BigEndian.PutUint16(body[2:4], uint16(width))
	binary.BigEndian.PutUint16(body[4:6], uint16(copies))
	return c.setFlag(ctx, cmdSetDimension, body, 1)
}

// SetQuantity sets the copy count for models that track it separately.
func (c *Client) SetQuantity(ctx context.Context, n int) (_ bool, err error) {
	defer deferWrap(&err)

	body := make([]byte, 2)
	binary.BigEndian.PutUint16(body, uint16(n))
	return c.setFlag(ctx, cmdSetQuantity, body, 1)
}

// GetPrintStatus queries progress of the running job.
func (c *Client) GetPrintStatus(ctx context.Context) (_ PrintStatus, err error) {
	defer deferWrap(&err)

	res, err := c.transceive(ctx, cmdGetPrintStatus, []byte{0x01}, 16)
	if err != nil {
		return
	}
	return decodePrintStatus(res.data)
}

// setFlag issues a request whose single reply payload byte is a success
// flag.
func (c *Client) setFlag(ctx context.Context, req byte, data []byte, respOffset byte) (_ bool, err error) {
	defer deferWrap(&err)

	res, err := c.transceive(ctx, req, data, respOffset)
	if err != nil {
		return
	}
	if len(res.data) == 0 {
		err = FrameError("empty reply payload")
		return
	}
	return res.data[0] != 0, nil
}
