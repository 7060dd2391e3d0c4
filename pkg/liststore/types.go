package liststore

import "encoding/json"

// Flag is a boolean that marshals as the integers 0/1, matching the wire
// format used by every index and data page.
type Flag bool

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting either 0/1 or
// true/false so hand-written fixtures aren't penalized.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*f = n != 0
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Flag(v)
	return nil
}

// Item is a single appended row: a ctime-stamped, opaque content string
// carrying two independent flags.
type Item struct {
	Ctime     int64  `json:"ctime"`
	Content   string `json:"content"`
	Seen      Flag   `json:"seen"`
	Dismissed Flag   `json:"dismissed"`
}

// Row is the caller-supplied shape for Append: a ctime/content pair with
// both flags implicitly false.
type Row struct {
	Ctime   int64
	Content string
}

// Summary is one month's entry in an index page's ymtab.
type Summary struct {
	Total     int   `json:"total"`
	Seen      int   `json:"seen"`
	Dismissed int   `json:"dismissed"`
	CtimeMax  int64 `json:"ctime_max"`
}

// Counts is the aggregate returned by Count.
type Counts struct {
	Total     int
	Seen      int
	Dismissed int
}

const (
	indexPageMagic   = "ListStoreIndexPage"
	indexPageVersion = 1

	dataPageMagic   = "ListStoreDataPage"
	dataPageVersion = 1
)

// IndexPage is the single per-name object holding one Summary per month
// that has ever had data appended.
type IndexPage struct {
	Magic   string             `json:"magic"`
	Version int                `json:"version"`
	YMTab   map[string]Summary `json:"ymtab"`
}

// DataPage is the per-(name, yyyymm) object holding the month's items in
// ascending ctime order.
type DataPage struct {
	Magic   string `json:"magic"`
	Version int    `json:"version"`
	CTab    []Item `json:"ctab"`
}

func emptyIndexPage() *IndexPage {
	return &IndexPage{Magic: indexPageMagic, Version: indexPageVersion, YMTab: map[string]Summary{}}
}

func emptyDataPage() *DataPage {
	return &DataPage{Magic: dataPageMagic, Version: dataPageVersion, CTab: nil}
}
