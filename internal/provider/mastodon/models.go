package mastodon

// status is a Mastodon status as returned by the REST API.
type status struct {
	ID               string       `json:"id"`
	CreatedAt        string       `json:"created_at"`
	InReplyToID      *string      `json:"in_reply_to_id"`
	URL              string       `json:"url"`
	Content          string       `json:"content"`
	SpoilerText      string       `json:"spoiler_text"`
	Visibility       string       `json:"visibility"`
	RepliesCount     int          `json:"replies_count"`
	ReblogsCount     int          `json:"reblogs_count"`
	FavouritesCount  int          `json:"favourites_count"`
	Favourited       bool         `json:"favourited"`
	Reblogged        bool         `json:"reblogged"`
	Account          account      `json:"account"`
	Reblog           *status      `json:"reblog"`
	MediaAttachments []attachment `json:"media_attachments"`
}

type account struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Acct        string `json:"acct"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	URL         string `json:"url"`
}

type attachment struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
}

type notification struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	CreatedAt string  `json:"created_at"`
	Account   account `json:"account"`
	Status    *status `json:"status"`
}

type statusContext struct {
	Ancestors   []status `json:"ancestors"`
	Descendants []status `json:"descendants"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	CreatedAt   int64  `json:"created_at"`
}

// credentials is the token bundle stored on a linked Mastodon account.
type credentials struct {
	Instance    string `json:"instance"`
	AccessToken string `json:"access_token"`
	Username    string `json:"username,omitempty"`
}

// postContent is the normalized payload exposed on domain.Post.Content.
type postContent struct {
	Text        string       `json:"text"`
	SpoilerText string       `json:"spoilerText,omitempty"`
	URL         string       `json:"url"`
	Author      author       `json:"author"`
	RebloggedBy *author      `json:"rebloggedBy,omitempty"`
	Media       []attachment `json:"media,omitempty"`
	Replies     int          `json:"replies"`
	Reblogs     int          `json:"reblogs"`
	Favourites  int          `json:"favourites"`
	Favourited  bool         `json:"favourited"`
	Reblogged   bool         `json:"reblogged"`
}

type author struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	URL         string `json:"url,omitempty"`
}

type notificationContent struct {
	From   author       `json:"from"`
	Status *postContent `json:"status,omitempty"`
}

type actionPayload struct {
	PostID     string `json:"postId"`
	Text       string `json:"text"`
	Visibility string `json:"visibility"`
}
