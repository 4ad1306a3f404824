package recording

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPSG/edf"
)

// readChunk is the number of samples requested per SignalReader.Read call.
const readChunk = 4096

// ChannelLayout gives the EDF signal indices of one channel's streams.
type ChannelLayout struct {
	Name    string `mapstructure:"name"`
	Signal  int    `mapstructure:"signal"`
	Blink   int    `mapstructure:"blink"`
	Quality int    `mapstructure:"quality"`
}

// MotionLayout gives the EDF signal indices of the motion streams.
type MotionLayout struct {
	X int `mapstructure:"x"`
	Y int `mapstructure:"y"`
}

// Layout maps recording streams to EDF signals. The EDF reader exposes
// signals by index only, so the sample rate is part of the layout.
type Layout struct {
	SampleRate float64         `mapstructure:"sample_rate"`
	Channels   []ChannelLayout `mapstructure:"channels"`
	Motion     *MotionLayout   `mapstructure:"motion"`
}

// Validate checks for a positive sample rate, at least one channel and
// non-negative signal indices.
func (l Layout) Validate() error {
	if l.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %v", ErrInvalidLayout, l.SampleRate)
	}
	if len(l.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidLayout)
	}
	for _, ch := range l.Channels {
		if ch.Name == "" || ch.Signal < 0 || ch.Blink < 0 || ch.Quality < 0 {
			return fmt.Errorf("%w: channel %+v", ErrInvalidLayout, ch)
		}
	}
	if l.Motion != nil && (l.Motion.X < 0 || l.Motion.Y < 0) {
		return fmt.Errorf("%w: motion %+v", ErrInvalidLayout, *l.Motion)
	}
	return nil
}

// StandardLayout returns the layout WriteEDF produces for the named
// channels: series, blink and quality signals per channel in order,
// followed by the two motion signals when motion is set.
func StandardLayout(names []string, sampleRate float64, motion bool) Layout {
	l := Layout{SampleRate: sampleRate}
	for i, name := range names {
		l.Channels = append(l.Channels, ChannelLayout{
			Name:    name,
			Signal:  3 * i,
			Blink:   3*i + 1,
			Quality: 3*i + 2,
		})
	}
	if motion {
		l.Motion = &MotionLayout{X: 3 * len(names), Y: 3*len(names) + 1}
	}
	return l
}

// EDFLoader reads a Recording from an EDF file.
//
// The patient identification field becomes the subject. A recording
// identification of the form "session=<s> version=<v> samples=<n>", as
// written by WriteEDF, supplies the session and version and trims padding
// from the last data record. Non-empty Subject, Session and Version fields
// on the loader take precedence.
type EDFLoader struct {
	Path    string
	Layout  Layout
	Subject string
	Session string
	Version string
}

// Load implements Loader.
func (l *EDFLoader) Load(ctx context.Context) (*Recording, error) {
	// The signal reader seeks once per sample, so read from memory.
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}

	return ReadEDF(ctx, bytes.NewReader(data), l.Layout, Recording{
		Subject: l.Subject,
		Session: l.Session,
		Version: l.Version,
	})
}

// ReadEDF reads the streams described by layout from r. Non-empty metadata
// fields of meta override those stored in the file.
func ReadEDF(ctx context.Context, r io.ReadSeeker, layout Layout, meta Recording) (*Recording, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	ids, err := readIDs(r)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("recording: rewind: %w", err)
	}

	er, err := edf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("recording: open edf: %w", err)
	}

	cache := make(map[int][]float64)
	signal := func(idx int) ([]float64, error) {
		if s, ok := cache[idx]; ok {
			return s, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := readSignal(er, idx, ids.samples)
		if err != nil {
			return nil, err
		}
		cache[idx] = s
		return s, nil
	}

	rec := &Recording{
		Subject:    firstNonEmpty(meta.Subject, ids.subject),
		Session:    firstNonEmpty(meta.Session, ids.session),
		Version:    firstNonEmpty(meta.Version, ids.version),
		SampleRate: layout.SampleRate,
		Channels:   make([]Channel, len(layout.Channels)),
	}

	for i, cl := range layout.Channels {
		series, err := signal(cl.Signal)
		if err != nil {
			return nil, fmt.Errorf("recording: channel %s: %w", cl.Name, err)
		}
		blink, err := signal(cl.Blink)
		if err != nil {
			return nil, fmt.Errorf("recording: channel %s blink: %w", cl.Name, err)
		}
		qual, err := signal(cl.Quality)
		if err != nil {
			return nil, fmt.Errorf("recording: channel %s quality: %w", cl.Name, err)
		}

		rec.Channels[i] = Channel{
			Name:    cl.Name,
			Series:  append([]float64(nil), series...),
			Blink:   append([]float64(nil), blink...),
			Quality: roundCodes(qual),
		}
	}

	if m := layout.Motion; m != nil {
		if rec.MotionX, err = signal(m.X); err != nil {
			return nil, fmt.Errorf("recording: motion x: %w", err)
		}
		if rec.MotionY, err = signal(m.Y); err != nil {
			return nil, fmt.Errorf("recording: motion y: %w", err)
		}
		rec.MotionX = append([]float64(nil), rec.MotionX...)
		rec.MotionY = append([]float64(nil), rec.MotionY...)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func readSignal(er *edf.Reader, idx, limit int) ([]float64, error) {
	sr, err := er.Signal(idx)
	if err != nil {
		return nil, fmt.Errorf("signal %d: %w", idx, err)
	}

	var out []float64
	buf := make([]float64, readChunk)
	for {
		n, err := sr.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", idx, err)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func roundCodes(x []float64) []int {
	out := make([]int, len(x))
	for i, v := range x {
		out[i] = int(math.Round(v))
	}
	return out
}

type fileIDs struct {
	subject string
	session string
	version string
	samples int
}

// readIDs parses the patient and recording identification fields of the
// fixed EDF header.
func readIDs(r io.Reader) (fileIDs, error) {
	b := make([]byte, 168)
	if _, err := io.ReadFull(r, b); err != nil {
		return fileIDs{}, fmt.Errorf("recording: read edf header: %w", err)
	}

	ids := fileIDs{subject: strings.TrimSpace(string(b[8:88]))}
	for _, field := range strings.Fields(string(b[88:168])) {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "session":
			ids.session = val
		case "version":
			ids.version = val
		case "samples":
			ids.samples, _ = strconv.Atoi(val)
		}
	}
	return ids, nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// WriteEDF writes rec to w as EDF with one-second data records and returns
// the layout needed to read it back. Each channel contributes three
// signals (series, blink, quality) followed by the two motion signals when
// present. The last record is padded by repeating the final sample.
//
// The sample rate must be a whole number of samples per second.
func WriteEDF(w io.WriteSeeker, rec *Recording) (Layout, error) {
	if err := rec.Validate(); err != nil {
		return Layout{}, err
	}
	if rec.SampleRate != math.Trunc(rec.SampleRate) {
		return Layout{}, fmt.Errorf("%w: sample rate %v is not integral", ErrInvalidRecording, rec.SampleRate)
	}

	spr := int(rec.SampleRate)
	layout := Layout{SampleRate: rec.SampleRate}

	var streams [][]float64
	var signals []edf.SignalHeader
	add := func(label, dim string, data []float64, codes bool) int {
		streams = append(streams, data)
		signals = append(signals, signalHeader(label, dim, data, codes, spr))
		return len(streams) - 1
	}

	for _, ch := range rec.Channels {
		codes := make([]float64, len(ch.Quality))
		for i, q := range ch.Quality {
			codes[i] = float64(q)
		}

		layout.Channels = append(layout.Channels, ChannelLayout{
			Name:    ch.Name,
			Signal:  add(ch.Name, "uV", ch.Series, false),
			Blink:   add(ch.Name+" BLK", "", ch.Blink, false),
			Quality: add(ch.Name+" CQ", "", codes, true),
		})
	}
	if rec.HasMotion() {
		layout.Motion = &MotionLayout{
			X: add("GYROX", "", rec.MotionX, false),
			Y: add("GYROY", "", rec.MotionY, false),
		}
	}

	ew, err := edf.Create(w, edf.Header{
		Version:            edf.Version0,
		PatientID:          rec.Subject,
		RecordingID:        fmt.Sprintf("session=%s version=%s samples=%d", rec.Session, rec.Version, rec.Samples()),
		StartTime:          time.Unix(0, 0).UTC(),
		DataRecordDuration: time.Second,
		SignalCount:        len(signals),
		Signals:            signals,
	})
	if err != nil {
		return Layout{}, fmt.Errorf("recording: create edf: %w", err)
	}

	n := rec.Samples()
	record := make([][]float64, len(streams))
	for start := 0; start < n; start += spr {
		for i, s := range streams {
			record[i] = padded(s, start, spr, record[i])
		}
		if err := ew.WriteRecord(record); err != nil {
			return Layout{}, fmt.Errorf("recording: write record: %w", err)
		}
	}

	if err := ew.Close(); err != nil {
		return Layout{}, fmt.Errorf("recording: close edf: %w", err)
	}
	return layout, nil
}

// padded copies s[start:start+n] into buf, repeating the last sample of s
// past its end.
func padded(s []float64, start, n int, buf []float64) []float64 {
	if cap(buf) < n {
		buf = make([]float64, n)
	}
	buf = buf[:n]

	copied := copy(buf, s[start:])
	for i := copied; i < n; i++ {
		buf[i] = s[len(s)-1]
	}
	return buf
}

// signalHeader chooses a physical range covering data. Codes are stored
// one-to-one; continuous streams use the full 16-bit digital range over
// integer physical limits.
func signalHeader(label, dim string, data []float64, codes bool, spr int) edf.SignalHeader {
	lo, hi := 0.0, 0.0
	if len(data) > 0 {
		lo, hi = data[0], data[0]
		for _, v := range data {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	h := edf.SignalHeader{
		Label:             label,
		PhysicalDimension: dim,
		SamplesPerRecord:  spr,
	}

	if codes {
		h.PhysicalMin, h.PhysicalMax = math.Min(lo, 0), math.Max(hi, 1)
		h.DigitalMin, h.DigitalMax = int(h.PhysicalMin), int(h.PhysicalMax)
		return h
	}

	h.PhysicalMin, h.PhysicalMax = math.Floor(lo)-1, math.Ceil(hi)+1
	h.DigitalMin, h.DigitalMax = math.MinInt16, math.MaxInt16
	return h
}
