/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/allbin/anyserial"
	"github.com/allbin/anyserial/driver/console"
	"github.com/allbin/anyserial/driver/softuart"
	"github.com/allbin/anyserial/driver/uart"
	"github.com/allbin/anyserial/internal/tui/styles"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// selftestCmd represents the selftest command
var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Exercise every variant on emulated drivers",
	Long: `Run the port handle against in-memory drivers and report the result of
each behaviour: listen arbitration between software UARTs, overflow
reporting, neutral results, ReadUntil, USB presence and the debug tee.

No hardware is needed. A failing check exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := runSelfTest(logger)
		failed := 0
		for _, r := range results {
			fmt.Printf("%s %-28s %s\n", styles.Check(r.ok), r.name, styles.MutedStyle.Render(r.detail))
			if !r.ok {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d checks failed", failed, len(results))
		}
		fmt.Printf("\n%s all %d checks passed\n", styles.SuccessStyle.Render("ok"), len(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selftestCmd)
}

type checkResult struct {
	name   string
	ok     bool
	detail string
}

type selfCheck struct {
	name string
	run  func(log *zap.Logger) (bool, string, error)
}

var selfChecks = []selfCheck{
	{"listen arbitration", checkArbitration},
	{"non-listener drops input", checkNonListenerDrops},
	{"overflow report-and-clear", checkOverflow},
	{"hardware neutral results", checkNeutral},
	{"read until delimiter", checkReadUntil},
	{"usb host presence", checkUSBPresence},
	{"debug tee over null modem", checkTee},
	{"debug loop rejected", checkDebugLoop},
}

func runSelfTest(log *zap.Logger) []checkResult {
	results := make([]checkResult, 0, len(selfChecks))
	for _, c := range selfChecks {
		ok, detail, err := c.run(log)
		if err != nil {
			ok, detail = false, err.Error()
		}
		log.Debug("selftest", zap.String("check", c.name), zap.Bool("ok", ok))
		results = append(results, checkResult{name: c.name, ok: ok, detail: detail})
	}
	return results
}

func softwarePorts(log *zap.Logger, timer *softuart.Timer, n int) ([]*anyserial.Port, error) {
	ports := make([]*anyserial.Port, n)
	for i := range ports {
		sw, err := timer.NewSoftware(nil)
		if err != nil {
			return nil, err
		}
		if ports[i], err = anyserial.NewSoftware(sw, anyserial.WithLogger(log)); err != nil {
			return nil, err
		}
	}
	return ports, nil
}

func checkArbitration(log *zap.Logger) (bool, string, error) {
	ports, err := softwarePorts(log, softuart.NewTimer(), 2)
	if err != nil {
		return false, "", err
	}
	a, b := ports[0], ports[1]
	a.Begin(9600)
	b.Begin(9600)
	if a.IsListening() || !b.IsListening() {
		return false, "the last begun instance should hold the receiver", nil
	}
	took := a.Listen()
	again := a.Listen()
	ok := took && !again && a.IsListening() && !b.IsListening()
	return ok, fmt.Sprintf("listen: %t then %t", took, again), nil
}

func checkNonListenerDrops(log *zap.Logger) (bool, string, error) {
	timer := softuart.NewTimer()
	ports, err := softwarePorts(log, timer, 2)
	if err != nil {
		return false, "", err
	}
	a, b := ports[0], ports[1]
	a.Begin(9600)
	b.Begin(9600)

	got := a.Driver().(*softuart.Software).Receive([]byte("lost"))
	return got == 0 && a.Available() == 0, fmt.Sprintf("%d bytes buffered on the idle instance", a.Available()), nil
}

func checkOverflow(log *zap.Logger) (bool, string, error) {
	alt, err := softuart.NewTimer().NewAlt(nil)
	if err != nil {
		return false, "", err
	}
	p, err := anyserial.NewAltSoftware(alt, anyserial.WithLogger(log))
	if err != nil {
		return false, "", err
	}
	p.Begin(9600)
	alt.Receive(bytes.Repeat([]byte{0x55}, softuart.AltBufferSize+20))

	first, second := p.Overflow(), p.Overflow()
	ok := first && !second && p.Available() == softuart.AltBufferSize
	return ok, fmt.Sprintf("overflow %t then %t, %d buffered", first, second, p.Available()), nil
}

func checkNeutral(log *zap.Logger) (bool, string, error) {
	u, err := uart.New("/dev/null")
	if err != nil {
		return false, "", err
	}
	p, err := anyserial.NewHardware(u, anyserial.WithLogger(log))
	if err != nil {
		return false, "", err
	}
	ok := p.Listen() && !p.IsListening() && !p.Overflow() && p.Connected() && p.Read() == anyserial.NoData
	return ok, fmt.Sprintf("capabilities: %s", p.Capabilities()), nil
}

func checkReadUntil(log *zap.Logger) (bool, string, error) {
	alt, err := softuart.NewTimer().NewAlt(nil)
	if err != nil {
		return false, "", err
	}
	p, err := anyserial.NewAltSoftware(alt, anyserial.WithLogger(log))
	if err != nil {
		return false, "", err
	}
	p.Begin(9600)
	alt.Receive([]byte("OK\r\nrest"))

	buf := make([]byte, 16)
	n := p.ReadUntil('\n', buf)
	ok := string(buf[:n]) == "OK\r" && p.Available() == 4
	return ok, fmt.Sprintf("%q, %d left", buf[:n], p.Available()), nil
}

func checkUSBPresence(log *zap.Logger) (bool, string, error) {
	p, err := anyserial.NewUSB(console.New(nil, nil), anyserial.WithLogger(log))
	if err != nil {
		return false, "", err
	}
	before := p.Connected()
	p.Begin(0)
	during := p.Connected()
	p.End()
	after := p.Connected()
	return !before && during && !after, fmt.Sprintf("connected %t/%t/%t", before, during, after), nil
}

func checkTee(log *zap.Logger) (bool, string, error) {
	timer := softuart.NewTimer()
	sw, err := timer.NewSoftware(nil)
	if err != nil {
		return false, "", err
	}
	alt, err := timer.NewAlt(nil)
	if err != nil {
		return false, "", err
	}
	softuart.Connect(sw, alt)

	var mirrored bytes.Buffer
	sink, err := anyserial.NewUSB(console.New(nil, &mirrored))
	if err != nil {
		return false, "", err
	}
	a, err := anyserial.NewSoftware(sw,
		anyserial.WithLogger(log),
		anyserial.WithDebugSink(sink),
		anyserial.WithDebugEnabled(true))
	if err != nil {
		return false, "", err
	}
	b, err := anyserial.NewAltSoftware(alt, anyserial.WithLogger(log))
	if err != nil {
		return false, "", err
	}
	a.Begin(9600)
	b.Begin(9600)

	a.WriteString("ping")
	var got []byte
	for b.Available() > 0 {
		got = append(got, byte(b.Read()))
	}
	ok := string(got) == "ping" && mirrored.String() == "ping"
	return ok, fmt.Sprintf("peer got %q, sink got %q", got, mirrored.String()), nil
}

func checkDebugLoop(log *zap.Logger) (bool, string, error) {
	a, err := anyserial.NewUSB(console.New(nil, nil), anyserial.WithLogger(log))
	if err != nil {
		return false, "", err
	}
	b, err := anyserial.NewUSB(console.New(nil, nil), anyserial.WithLogger(log))
	if err != nil {
		return false, "", err
	}
	if err := a.AttachDebug(b); err != nil {
		return false, "", err
	}
	err = b.AttachDebug(a)
	return errors.Is(err, anyserial.ErrDebugLoop), fmt.Sprintf("%v", err), nil
}
