package niimbot

import (
	"context"
	"io"
	"log/slog"
	"time"
)

const (
	maxAttempts = 3
	retryDelay  = 500 * time.Millisecond
	recvBufSize = 1024
)

// Client drives one printer over an open Transport. It is strictly
// synchronous and not safe for concurrent use; one print session owns
// the transport end to end.
type Client struct {
	t   Transport
	buf []byte
}

// NewClient wraps an open transport. The client takes ownership and
// closes the transport on Close.
func NewClient(t Transport) *Client {
	return &Client{t: t}
}

func (c *Client) Close() error {
	return c.t.Close()
}

// send writes a packet without waiting for an acknowledgement. Row
// packets use this path; everything else goes through transceive.
func (c *Client) send(p packet) (err error) {
	defer deferWrap(&err)

	out, err := p.MarshalBinary()
	if err != nil {
		return
	}
	slog.Debug("send", logHex("data", out))
	_, err = c.t.Write(out)
	return
}

// transceive performs one bounded-retry request/response cycle. The
// expected response type is req+respOffset. Any frame, transport or
// classification failure retries the whole cycle; once the attempt
// ceiling is reached the terminal RetriesExhaustedError carries the
// last failure.
func (c *Client) transceive(ctx context.Context, req byte, data []byte, respOffset byte) (_ packet, err error) {
	defer deferWrap(&err)

	expected := req + respOffset
	out, err := packet{typ: req, data: data}.MarshalBinary()
	if err != nil {
		return
	}

	var last error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var res packet
		res, last = c.attempt(out, expected)
		if last == nil {
			return res, nil
		}
		slog.Warn("attempt failed", "attempt", attempt, "of", maxAttempts, "error", last)

		if attempt < maxAttempts {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				err = context.Cause(ctx)
				return
			}
		}
	}

	err = &RetriesExhaustedError{Attempts: maxAttempts, Last: last}
	return
}

func (c *Client) attempt(out []byte, expected byte) (_ packet, err error) {
	defer deferWrap(&err)

	slog.Debug("send", logHex("data", out))
	_, err = c.t.Write(out)
	if err != nil {
		return
	}

	header := make([]byte, 4)
	_, err = io.ReadFull(c.t, header)
	if err != nil {
		return
	}
	if header[0] != headerByte || header[1] != headerByte {
		err = FrameError("invalid response header")
		return
	}

	// remaining data, checksum, two footer bytes
	rest := make([]byte, int(header[3])+3)
	_, err = io.ReadFull(c.t, rest)
	if err != nil {
		return
	}

	full := append(header, rest...)
	slog.Debug("recv", logHex("data", full))

	var res packet
	err = res.UnmarshalBinary(full)
	if err != nil {
		return
	}

	err = classifyResponse(res, expected)
	if err != nil {
		return
	}

	return res, nil
}

// drain reads whatever the printer has pushed unsolicited and slices
// complete frames out of the accumulation buffer. Incomplete trailing
// bytes stay buffered for the next call. The request/response path
// never touches this buffer.
func (c *Client) drain() (_ []packet, err error) {
	defer deferWrap(&err)

	chunk := make([]byte, recvBufSize)
	n, err := c.t.Read(chunk)
	if err != nil {
		return
	}
	c.buf = append(c.buf, chunk[:n]...)

	var packets []packet
	for len(c.buf) > 4 {
		frameLen := int(c.buf[3]) + 7
		if len(c.buf) < frameLen {
			break
		}

		var p packet
		err = p.UnmarshalBinary(c.buf[:frameLen])
		if err != nil {
			return
		}
		slog.Debug("recv", logHex("data", c.buf[:frameLen]))
		packets = append(packets, p)
		c.buf = c.buf[frameLen:]
	}

	return packets, nil
}
