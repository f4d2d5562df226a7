// Package export writes a finalized session as a Parquet table with one row
// per timer item.
package export

import (
	"errors"
	"fmt"

	"alcyxob/interval-trainer/internal/domain"
	"alcyxob/interval-trainer/internal/workout"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ContentType of the produced files.
const ContentType = "application/vnd.apache.parquet"

// Item outcomes.
const (
	OutcomeDone       = "done"
	OutcomeAbandoned  = "abandoned"
	OutcomeNotReached = "not_reached"
)

var ErrSessionNotFinal = errors.New("only finalized sessions can be exported")

// ItemRow is one timer item of a session.
type ItemRow struct {
	SessionID     string `parquet:"name=session_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ItemIndex     int32  `parquet:"name=item_index, type=INT32"`
	ItemID        string `parquet:"name=item_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Kind          string `parquet:"name=kind, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name          string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationS     int32  `parquet:"name=duration_s, type=INT32"`
	CircuitIndex  *int32 `parquet:"name=circuit_index, type=INT32, repetitiontype=OPTIONAL"`
	RoundIndex    *int32 `parquet:"name=round_index, type=INT32, repetitiontype=OPTIONAL"`
	ExerciseIndex *int32 `parquet:"name=exercise_index, type=INT32, repetitiontype=OPTIONAL"`
	Outcome       string `parquet:"name=outcome, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// Rows flattens the session's workout and labels each item with how far the
// run got. A completed run marks every item done; a run stopped on item k
// marks earlier items done, k abandoned and the rest not reached.
func Rows(s domain.WorkoutSession) ([]ItemRow, error) {
	if !s.Status.IsFinal() {
		return nil, ErrSessionNotFinal
	}

	flat := workout.Flatten(&s.Workout)
	rows := make([]ItemRow, 0, len(flat.Items))
	for i, item := range flat.Items {
		rows = append(rows, ItemRow{
			SessionID:     s.ID.Hex(),
			ItemIndex:     int32(i),
			ItemID:        item.ID,
			Kind:          string(item.Type),
			Name:          item.Name,
			DurationS:     int32(item.Duration),
			CircuitIndex:  int32Ptr(item.CircuitIndex),
			RoundIndex:    int32Ptr(item.RoundIndex),
			ExerciseIndex: int32Ptr(item.ExerciseIndex),
			Outcome:       outcome(s, i),
		})
	}
	return rows, nil
}

func outcome(s domain.WorkoutSession, index int) string {
	if s.Status == domain.SessionCompleted {
		return OutcomeDone
	}
	switch {
	case index < s.CompletedItems:
		return OutcomeDone
	case index == s.CompletedItems:
		return OutcomeAbandoned
	default:
		return OutcomeNotReached
	}
}

func int32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	out := int32(*v)
	return &out
}

// Marshal encodes rows as a Snappy-compressed Parquet file.
func Marshal(rows []ItemRow) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(ItemRow), 4)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("failed to write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("failed to finish parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

// Session is Rows followed by Marshal. It also returns the row count.
func Session(s domain.WorkoutSession) ([]byte, int, error) {
	rows, err := Rows(s)
	if err != nil {
		return nil, 0, err
	}
	data, err := Marshal(rows)
	if err != nil {
		return nil, 0, err
	}
	return data, len(rows), nil
}
