package storage

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/flatdb/internal/alias/bx"
	"github.com/tuannm99/flatdb/internal/record"
)

const (
	IntWidth  = 4
	TextWidth = 50
)

// ---- Errors ----
var (
	ErrTruncatedFile   = errors.New("rowcodec: data length is not a multiple of the row width")
	ErrSchemaMismatch  = errors.New("rowcodec: schema/values mismatch")
	ErrUnsupportedType = errors.New("rowcodec: unsupported column type")
)

// ColumnWidth is the on-disk size of one field of type t.
func ColumnWidth(t record.ColumnType) (int, error) {
	switch t {
	case record.ColInt:
		return IntWidth, nil
	case record.ColText:
		return TextWidth, nil
	case record.ColType:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, record.TypeName(t))
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedType, uint8(t))
	}
}

// RowWidth sums the fixed widths of every column in s.
func RowWidth(s record.Schema) (int, error) {
	w := 0
	for _, col := range s.Cols {
		cw, err := ColumnWidth(col.Type)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", col.Name, err)
		}
		w += cw
	}
	return w, nil
}

// ---- EncodeRow(schema, row) -> []byte ----
// Format: fields back to back, no header.
//
//	Int : 4 bytes, host byte order
//	Text: 50 bytes, left-justified, zero padded; longer text is cut
func EncodeRow(s record.Schema, row record.Row) ([]byte, error) {
	width, err := RowWidth(s)
	if err != nil {
		return nil, err
	}
	out := make([]byte, width)
	if err := encodeRowInto(out, s, row); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeRowInto(dst []byte, s record.Schema, row record.Row) error {
	if len(row) != s.NumCols() {
		return fmt.Errorf("%w: %d values for %d columns", ErrSchemaMismatch, len(row), s.NumCols())
	}

	off := 0
	for i, col := range s.Cols {
		v := row[i]
		if !record.ValueMatchesType(v, col.Type) {
			return fmt.Errorf("%w: column %q wants %s, got %s", ErrSchemaMismatch, col.Name, col.Type, v.Kind)
		}

		switch col.Type {
		case record.ColInt:
			bx.PutI32At(dst, off, v.Int)
			off += IntWidth

		case record.ColText:
			bs := []byte(v.Text)
			if len(bs) > TextWidth {
				slog.Warn("rowcodec: text longer than field, only the first bytes are kept",
					"table", s.Name, "col", col.Name, "len", len(bs), "max", TextWidth)
				bs = bs[:TextWidth]
			}
			field := dst[off : off+TextWidth]
			n := copy(field, bs)
			clear(field[n:])
			off += TextWidth

		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedType, col.Type)
		}
	}
	return nil
}

// EncodeRows concatenates the encoding of every row.
func EncodeRows(s record.Schema, rows []record.Row) ([]byte, error) {
	width, err := RowWidth(s)
	if err != nil {
		return nil, err
	}
	out := make([]byte, width*len(rows))
	for i, row := range rows {
		if err := encodeRowInto(out[i*width:(i+1)*width], s, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return out, nil
}

// ---- DecodeRows(schema, buf) -> []Row ----
// Text stops at the first zero byte, so an embedded NUL truncates the value.
func DecodeRows(s record.Schema, buf []byte) ([]record.Row, error) {
	width, err := RowWidth(s)
	if err != nil {
		return nil, err
	}
	if width == 0 {
		if len(buf) != 0 {
			return nil, fmt.Errorf("%w: %d bytes for a zero-width row", ErrTruncatedFile, len(buf))
		}
		return nil, nil
	}
	if len(buf)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes, row width %d", ErrTruncatedFile, len(buf), width)
	}

	rows := make([]record.Row, 0, len(buf)/width)
	for start := 0; start < len(buf); start += width {
		rows = append(rows, decodeRow(s, buf[start:start+width]))
	}
	return rows, nil
}

// decodeRow assumes len(chunk) == RowWidth(s).
func decodeRow(s record.Schema, chunk []byte) record.Row {
	row := make(record.Row, s.NumCols())
	off := 0
	for i, col := range s.Cols {
		switch col.Type {
		case record.ColInt:
			row[i] = record.IntValue(bx.I32At(chunk, off))
			off += IntWidth
		case record.ColText:
			field := chunk[off : off+TextWidth]
			if n := bytes.IndexByte(field, 0); n >= 0 {
				field = field[:n]
			}
			row[i] = record.TextValue(string(field))
			off += TextWidth
		}
	}
	return row
}
