//go:build unix

package terminal

import (
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// PollReader reads single bytes from a file descriptor, waiting at most the
// requested timeout for each one.
type PollReader struct {
	fd int
}

// NewPollReader returns a PollReader over f (normally os.Stdin).
func NewPollReader(f *os.File) *PollReader {
	return &PollReader{fd: int(f.Fd())}
}

// ReadByte implements ByteSource.
func (p *PollReader) ReadByte(timeout time.Duration) (byte, bool, error) {
	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(p.fd), Events: unix.POLLIN}}

	for {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		n, err := unix.Poll(fds, int(remaining/time.Millisecond))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return 0, false, err
		}
		if n == 0 {
			return 0, false, nil
		}

		var buf [1]byte
		rn, err := unix.Read(p.fd, buf[:])
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return 0, false, err
		}
		if rn == 0 {
			return 0, false, io.EOF
		}
		return buf[0], true, nil
	}
}
