package dto

import (
	"commentshub/internal/microservices/http-api/models"
)

// CommentResponse for returning comment information
type CommentResponse struct {
	ID      int64           `json:"id"`
	User    int64           `json:"user"`
	Text    string          `json:"text"`
	Home    string          `json:"home"`
	Reply   *int64          `json:"reply"`
	Replies []ReplyResponse `json:"replies"`
}

// ReplyResponse is one entry of a comment's replies, with the author expanded.
type ReplyResponse struct {
	ID   int64        `json:"id"`
	User UserResponse `json:"user"`
	Text string       `json:"text"`
	Home string       `json:"home"`
}

// FromModelToCommentResponse converts a Comment model to CommentResponse DTO.
// replies must already be in id-descending order with User loaded.
func FromModelToCommentResponse(comment *models.Comment, replies []models.Comment) CommentResponse {
	out := CommentResponse{
		ID:      comment.ID,
		User:    comment.UserID,
		Text:    comment.Text,
		Home:    comment.Home,
		Reply:   comment.ReplyID,
		Replies: make([]ReplyResponse, 0, len(replies)),
	}
	for i := range replies {
		r := &replies[i]
		out.Replies = append(out.Replies, ReplyResponse{
			ID:   r.ID,
			User: FromModelToUserResponse(&r.User),
			Text: r.Text,
			Home: r.Home,
		})
	}
	return out
}

// CommentWriteDTO holds the accepted fields of a comment payload. The author
// is never read from input.
type CommentWriteDTO struct {
	Text     *string
	Home     *string
	Reply    *int64
	ReplySet bool
}

// BindCommentWrite runs the per-field checks. Whether Reply points at an
// existing comment is left to the caller, which adds to the returned errors.
func BindCommentWrite(p Payload, partial bool) (*CommentWriteDTO, *ValidationError) {
	errs := NewValidationError()
	d := &CommentWriteDTO{
		Text: p.readString("text", stringRule{required: true}, partial, errs),
		Home: p.readString("home", stringRule{allowBlank: true, maxLength: 200, format: "http_url"}, partial, errs),
	}
	d.Reply, d.ReplySet = p.readPK("reply", errs)
	return d, errs
}

// ApplyTo copies present fields onto c.
func (d *CommentWriteDTO) ApplyTo(c *models.Comment) {
	if d.Text != nil {
		c.Text = *d.Text
	}
	if d.Home != nil {
		c.Home = *d.Home
	}
	if d.ReplySet {
		c.ReplyID = d.Reply
	}
}
