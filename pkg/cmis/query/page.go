package query

// Page is one window of a result set. TotalCount is the size of the whole
// result set.
type Page[T any] struct {
	Data       []T `json:"data"       yaml:"data"`
	PageNumber int `json:"pageNumber" yaml:"pageNumber"`
	PageSize   int `json:"pageSize"   yaml:"pageSize"`
	TotalCount int `json:"totalCount" yaml:"totalCount"`
}

func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}

	pages := p.TotalCount / p.PageSize
	if p.TotalCount%p.PageSize != 0 {
		pages++
	}

	return pages
}

func (p Page[T]) HasNext() bool {
	if p.PageSize <= 0 {
		return false
	}

	return max(p.PageNumber, 1) < p.TotalPages()
}

func (p Page[T]) HasPrevious() bool {
	return p.PageNumber > 1
}

// Convert maps the data of a page keeping its metadata.
func Convert[T, R any](p Page[T], fn func(T) R) Page[R] {
	data := make([]R, 0, len(p.Data))
	for _, item := range p.Data {
		data = append(data, fn(item))
	}

	return Page[R]{
		Data:       data,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
	}
}
