// AngelaMos | 2026
// dto.go

package notice

type CreateNoticeRequest struct {
	Title   string `json:"title"   validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type ListParams struct {
	Page     int
	PageSize int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
