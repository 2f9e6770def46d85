package records

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"tarjetas/internal/core"
)

// maxRecordSize bounds a single encoded credit. A credit with years of
// statements stays well under it.
const maxRecordSize = 16 << 20

var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports the first record that could not be decoded.
// Line is 1-based.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s at line %d: %v", ErrMalformedRecord, e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// EncodeCredit renders one credit as a single-line JSON object. Derived
// statement fields are written as they are. Clone turns nil slices into
// empty ones so they encode as [].
func EncodeCredit(c core.Credit) ([]byte, error) {
	data, err := json.Marshal(c.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode credit %q: %w", c.Name, err)
	}
	return data, nil
}

// DecodeCredit parses one record. Missing statement or payment lists
// decode as empty.
func DecodeCredit(line []byte) (core.Credit, error) {
	var c core.Credit
	if len(bytes.TrimSpace(line)) == 0 {
		return c, errors.New("empty record")
	}
	if err := json.Unmarshal(line, &c); err != nil {
		return core.Credit{}, err
	}
	if c.Statements == nil {
		c.Statements = []core.Statement{}
	}
	for i := range c.Statements {
		if c.Statements[i].Payments == nil {
			c.Statements[i].Payments = []core.Payment{}
		}
	}
	return c, nil
}

// Encode writes one record per credit separated by "\n", without a
// trailing newline.
func Encode(w io.Writer, credits []core.Credit) error {
	for i, c := range credits {
		data, err := EncodeCredit(c)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads records until EOF. A trailing newline is tolerated; a
// blank line anywhere else is a malformed record.
func Decode(r io.Reader) ([]core.Credit, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	credits := []core.Credit{}
	line := 0
	for sc.Scan() {
		line++
		c, err := DecodeCredit(sc.Bytes())
		if err != nil {
			return nil, &MalformedRecordError{Line: line, Err: err}
		}
		credits = append(credits, c)
	}
	if err := sc.Err(); err != nil {
		return nil, &MalformedRecordError{Line: line + 1, Err: err}
	}
	return credits, nil
}

func Marshal(credits []core.Credit) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, credits); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Unmarshal(data []byte) ([]core.Credit, error) {
	return Decode(bytes.NewReader(data))
}
