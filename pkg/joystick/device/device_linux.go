//go:build linux

package device

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	iocGAXES    = 0x80016a11
	iocGBUTTONS = 0x80016a12
	iocGNAME    = 0x80ff6a13
)

type device struct {
	Reader

	file        *os.File
	index       int
	name        string
	axisCount   uint8
	buttonCount uint8
}

func ioctl(fd uintptr, req uint, ptr unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(ptr)); errno != 0 {
		return errno
	}
	return nil
}

// Open opens /dev/input/js<index>.
func Open(index int) (Device, error) {
	f, err := os.Open(fmt.Sprintf("/dev/input/js%d", index))
	if err != nil {
		return nil, err
	}
	d := &device{Reader: Reader{R: f}, file: f, index: index}
	var name [256]byte
	fd := f.Fd()
	err = ioctl(fd, iocGAXES, unsafe.Pointer(&d.axisCount))
	if err == nil {
		err = ioctl(fd, iocGBUTTONS, unsafe.Pointer(&d.buttonCount))
	}
	if err == nil {
		err = ioctl(fd, iocGNAME, unsafe.Pointer(&name))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("joystick %d: %w", index, err)
	}
	if pos := bytes.IndexByte(name[:], 0); pos >= 0 {
		d.name = string(name[:pos])
	} else {
		d.name = string(name[:])
	}
	return d, nil
}

// DetectAndOpen opens the first available device from startIndex. It
// returns nil, nil if there is none.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < 32; index++ {
		d, err := Open(index)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return d, err
	}
	return nil, nil
}

func (d *device) Close() error     { return d.file.Close() }
func (d *device) Index() int       { return d.index }
func (d *device) Name() string     { return d.name }
func (d *device) AxisCount() int   { return int(d.axisCount) }
func (d *device) ButtonCount() int { return int(d.buttonCount) }
