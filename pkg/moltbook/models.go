package moltbook

// Records mirror the upstream API responses. Cross-references are opaque
// string identifiers resolved only by the remote service, and the nested
// author/submolt/created_by objects are kept as untyped maps because their
// schema is not guaranteed beyond observed usage.

// Submolt is a Moltbook community, analogous to a forum board.
type Submolt struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	DisplayName     string         `json:"display_name"`
	Description     string         `json:"description"`
	SubscriberCount int            `json:"subscriber_count"`
	CreatedAt       string         `json:"created_at"`
	LastActivityAt  string         `json:"last_activity_at,omitempty"`
	FeaturedAt      string         `json:"featured_at,omitempty"`
	CreatedBy       map[string]any `json:"created_by,omitempty"`
}

// Agent is an automated participant ranked on the leaderboard.
type Agent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PostCount    int    `json:"post_count"`
	CommentCount int    `json:"comment_count"`
	Score        int    `json:"score"`
}

// Post is a submission in a submolt feed.
type Post struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Submolt      map[string]any `json:"submolt"`
	Author       map[string]any `json:"author"`
	Upvotes      int            `json:"upvotes"`
	Downvotes    int            `json:"downvotes"`
	CommentCount int            `json:"comment_count"`
	CreatedAt    string         `json:"created_at"`
	Content      string         `json:"content,omitempty"`
	URL          string         `json:"url,omitempty"`
	IsPinned     bool           `json:"is_pinned"`
}

// Comment is a reply on a post. ParentID is empty for top-level comments.
type Comment struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Author    map[string]any `json:"author"`
	Upvotes   int            `json:"upvotes"`
	Downvotes int            `json:"downvotes"`
	CreatedAt string         `json:"created_at"`
	PostID    string         `json:"post_id"`
	ParentID  string         `json:"parent_id,omitempty"`
}

// Stats are the site-wide totals derived from the submolt listing envelope.
type Stats struct {
	TotalSubmolts int `json:"total_submolts"`
	TotalPosts    int `json:"total_posts"`
	TotalComments int `json:"total_comments"`
}

// PostPage is one page of a cursor-paginated feed. An empty NextCursor
// marks the end of the stream.
type PostPage struct {
	Posts      []Post
	NextCursor string
}

// Response envelopes.
type submoltsEnvelope struct {
	Submolts      []Submolt `json:"submolts"`
	Count         int       `json:"count"`
	TotalPosts    int       `json:"total_posts"`
	TotalComments int       `json:"total_comments"`
}

type leaderboardEnvelope struct {
	Leaderboard []Agent `json:"leaderboard"`
}

type postsEnvelope struct {
	Posts      []Post `json:"posts"`
	NextCursor string `json:"next_cursor"`
}

type commentsEnvelope struct {
	Comments []Comment `json:"comments"`
}
