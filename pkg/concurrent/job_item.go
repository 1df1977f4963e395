package concurrent

// RowRange. range internal node index [Start, End) yang di relax oleh satu worker dalam satu round.
type RowRange struct {
	Start int32
	End   int32
}

func NewRowRange(start, end int32) RowRange {
	return RowRange{
		Start: start,
		End:   end,
	}
}

// RoadRecord. satu baris data road yang belum di parse.
type RoadRecord struct {
	Line   int
	Fields []string
}

func NewRoadRecord(line int, fields []string) RoadRecord {
	return RoadRecord{
		Line:   line,
		Fields: fields,
	}
}

type JobI interface {
	RowRange | RoadRecord
}

type Job[T JobI] struct {
	ID      int
	JobItem T
}

type JobFunc[T JobI, G any] func(job T) G

func NewJob[T JobI](id int, item T) Job[T] {
	return Job[T]{
		ID:      id,
		JobItem: item,
	}
}
