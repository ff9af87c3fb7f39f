// +build linux,!android freebsd openbsd

package wm

import (
	"log"
	"time"

	"golang.org/x/sys/unix"
)

// logf is the ambient logging convention used across every backend:
// plain, prefixed, swallowed rather than propagated (spec §7,
// "Runtime operations ... report via log and continue").
func logf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// pipe2 creates the notify pipe used to wake a blocked poll(2) from
// Queue.Post, mirroring the eventfd/pipe waitset of spec §4.5, §9
// ("Per-backend event-loop wakeup").
func pipe2() (read, write int, err error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}

func writeByte(fd int) {
	var b [1]byte
	unix.Write(fd, b[:])
}

func drainByte(fd int) {
	var buf [64]byte
	for {
		n, err := unix.Read(fd, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// waitFDs polls the notify pipe and the backend's native connection fd
// together, for up to timeout, reporting which one (if either) became
// readable (spec §4.5 step 4).
func waitFDs(notifyFD, nativeFD int, timeout time.Duration) (nativeReady, timerExpired bool) {
	ms := int(timeout / time.Millisecond)
	if ms <= 0 && timeout > 0 {
		ms = 1
	}
	fds := []unix.PollFd{
		{Fd: int32(nativeFD), Events: unix.POLLIN},
		{Fd: int32(notifyFD), Events: unix.POLLIN},
	}
	n, err := unix.Poll(fds, ms)
	if err != nil || n == 0 {
		return false, n == 0
	}
	return fds[0].Revents&unix.POLLIN != 0, false
}
