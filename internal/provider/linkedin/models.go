package linkedin

type localizedValue struct {
	Localized map[string]string `json:"localized"`
}

type profileResponse struct {
	ID                 string         `json:"id"`
	VanityName         string         `json:"vanityName"`
	LocalizedFirstName string         `json:"localizedFirstName"`
	LocalizedLastName  string         `json:"localizedLastName"`
	FirstName          localizedValue `json:"firstName"`
	LastName           localizedValue `json:"lastName"`
	Headline           localizedValue `json:"headline"`
}

type auditStamp struct {
	Time  int64  `json:"time"`
	Actor string `json:"actor,omitempty"`
}

type socialCounts struct {
	NumLikes    int `json:"numLikes"`
	NumComments int `json:"numComments"`
	NumShares   int `json:"numShares"`
}

type feedElement struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   struct {
		Text string `json:"text"`
	} `json:"text"`
	Created      auditStamp `json:"created"`
	SocialDetail struct {
		TotalSocialActivityCounts socialCounts `json:"totalSocialActivityCounts"`
	} `json:"socialDetail"`
}

type feedResponse struct {
	Elements []feedElement `json:"elements"`
}

type commentElement struct {
	ID            string     `json:"id"`
	Actor         string     `json:"actor"`
	ParentComment string     `json:"parentComment,omitempty"`
	Created       auditStamp `json:"created"`
	Message       struct {
		Text string `json:"text"`
	} `json:"message"`
}

type paging struct {
	Start int `json:"start"`
	Count int `json:"count"`
	Total int `json:"total"`
}

type commentsResponse struct {
	Elements []commentElement `json:"elements"`
	Paging   paging           `json:"paging"`
}

type organizationInfo struct {
	LocalizedName string `json:"localizedName"`
	VanityName    string `json:"vanityName"`
}

type organizationACL struct {
	Organization string           `json:"organization"`
	Role         string           `json:"role"`
	State        string           `json:"state"`
	Details      organizationInfo `json:"organization~"`
}

type organizationACLResponse struct {
	Elements []organizationACL `json:"elements"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// credentials is the token bundle stored on a linked LinkedIn account.
type credentials struct {
	AccessToken string `json:"access_token"`
	PersonURN   string `json:"person_urn"`
	Name        string `json:"name,omitempty"`
	VanityName  string `json:"vanity_name,omitempty"`
}

// postContent is the normalized payload exposed on domain.Post.Content.
type postContent struct {
	Text     string `json:"text"`
	AuthorID string `json:"authorId"`
	URL      string `json:"url"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
	Shares   int    `json:"shares"`
}

type commentContent struct {
	Text string `json:"text"`
}

type actionPayload struct {
	PostID string `json:"postId"`
	Text   string `json:"text"`
}

type shareRequest struct {
	Author         string `json:"author"`
	LifecycleState string `json:"lifecycleState"`
	Text           struct {
		Text string `json:"text"`
	} `json:"text"`
	Visibility string `json:"visibility"`
}

type likeRequest struct {
	Actor  string `json:"actor"`
	Object string `json:"object"`
}

type commentRequest struct {
	Actor   string `json:"actor"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

type createdResponse struct {
	ID string `json:"id"`
}
