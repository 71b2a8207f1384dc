package serial

import (
	"io"
	"sync"

	"go.bug.st/serial"
)

// Monitor manages a serial console connection to the target board.
type Monitor struct {
	portName string
	baudRate int

	mu      sync.Mutex
	port    serial.Port
	running bool
	log     io.Writer
	dataCh  chan string
	done    chan struct{}
}

// NewMonitor creates a monitor for the given port and baud rate. The port
// is not opened until Connect.
func NewMonitor(portName string, baudRate int) *Monitor {
	return &Monitor{
		portName: portName,
		baudRate: baudRate,
		dataCh:   make(chan string, 64),
	}
}

// SetLog tees all received traffic to w. Must be called before Connect.
func (m *Monitor) SetLog(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = w
}

// Connect opens the serial port (8N1) and starts the read loop.
func (m *Monitor) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.closeLocked()
	}

	mode := &serial.Mode{
		BaudRate: m.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(m.portName, mode)
	if err != nil {
		return err
	}

	m.port = port
	m.running = true
	m.done = make(chan struct{})

	go m.readLoop()
	return nil
}

// Close shuts the port down. The data channel stays open so pending reads
// drain; consumers stop on Connected() or their own quit signal.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
}

func (m *Monitor) closeLocked() {
	if !m.running {
		return
	}
	m.running = false
	if m.port != nil {
		m.port.Close()
	}
	close(m.done)
}

// Send writes data to the serial port.
func (m *Monitor) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.port == nil || !m.running {
		return io.ErrClosedPipe
	}
	_, err := m.port.Write(data)
	return err
}

// Data returns the channel that receives serial data.
func (m *Monitor) Data() <-chan string {
	return m.dataCh
}

// Connected reports whether the monitor is connected.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Port returns the configured port name.
func (m *Monitor) Port() string { return m.portName }

// Baud returns the configured baud rate.
func (m *Monitor) Baud() int { return m.baudRate }

func (m *Monitor) readLoop() {
	buf := make([]byte, 1024)
	for {
		select {
		case <-m.done:
			return
		default:
		}

		n, err := m.port.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		m.mu.Lock()
		if m.log != nil {
			m.log.Write(buf[:n])
		}
		m.mu.Unlock()

		select {
		case m.dataCh <- string(buf[:n]):
		default:
			// Drop data if the consumer lags behind
		}
	}
}
