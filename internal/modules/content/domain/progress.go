package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Progress is an ordered set of completed item ids, each with the unix
// millisecond time it was completed. Its JSON form is a plain object.
type Progress struct {
	ids []string
	at  map[string]int64
}

func NewProgress() Progress {
	return Progress{at: map[string]int64{}}
}

func (p Progress) Has(id string) bool {
	_, ok := p.at[id]
	return ok
}

func (p Progress) At(id string) (int64, bool) {
	ts, ok := p.at[id]
	return ts, ok
}

func (p Progress) Len() int {
	return len(p.ids)
}

func (p Progress) IDs() []string {
	return append([]string(nil), p.ids...)
}

// Set records id as completed at ts. An existing id keeps its position.
func (p *Progress) Set(id string, ts int64) {
	if p.at == nil {
		p.at = map[string]int64{}
	}
	if _, ok := p.at[id]; !ok {
		p.ids = append(p.ids, id)
	}
	p.at[id] = ts
}

func (p *Progress) Delete(id string) bool {
	if _, ok := p.at[id]; !ok {
		return false
	}
	delete(p.at, id)
	for i, existing := range p.ids {
		if existing == id {
			p.ids = append(p.ids[:i:i], p.ids[i+1:]...)
			break
		}
	}
	return true
}

func (p Progress) Clone() Progress {
	out := Progress{ids: append([]string(nil), p.ids...), at: make(map[string]int64, len(p.at))}
	for k, v := range p.at {
		out.at[k] = v
	}
	return out
}

func (p Progress) ToPlain() map[string]int64 {
	out := make(map[string]int64, len(p.at))
	for k, v := range p.at {
		out[k] = v
	}
	return out
}

// ProgressFromPlain rebuilds a Progress ordered by completion time, then id.
func ProgressFromPlain(plain map[string]int64) Progress {
	ids := make([]string, 0, len(plain))
	for id := range plain {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if plain[ids[i]] != plain[ids[j]] {
			return plain[ids[i]] < plain[ids[j]]
		}
		return ids[i] < ids[j]
	})
	out := NewProgress()
	for _, id := range ids {
		out.Set(id, plain[id])
	}
	return out
}

func (p Progress) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToPlain())
}

func (p *Progress) UnmarshalJSON(raw []byte) error {
	var plain map[string]float64
	if err := json.Unmarshal(raw, &plain); err != nil {
		return fmt.Errorf("decode progress: %w", err)
	}
	converted := make(map[string]int64, len(plain))
	for k, v := range plain {
		converted[k] = int64(v)
	}
	*p = ProgressFromPlain(converted)
	return nil
}
