package lastfm

// origin records the parameters of the request a result was bound from.
type origin struct {
	params Params
}

// RequestParams returns a copy of the parameters that produced the value.
func (o *origin) RequestParams() Params {
	return o.params.Clone()
}

func (o *origin) attach(p Params) {
	o.params = p
}

// Period selects the time range of user top lists.
type Period string

// Periods accepted by user.getTop* methods.
const (
	PeriodOverall Period = "overall"
	Period7Day    Period = "7day"
	Period1Month  Period = "1month"
	Period3Month  Period = "3month"
	Period6Month  Period = "6month"
	Period12Month Period = "12month"
)

func (p Period) String() string {
	return string(p)
}

// Image is one size of an artwork set.
type Image struct {
	Size string
	URL  string
}

func (i *Image) decode(a attrs) {
	i.Size = a.str("size")
	i.URL = a.str("text")
	if i.URL == "" {
		i.URL = a.str("url")
	}
}

// ToMap returns the populated fields of i.
func (i Image) ToMap() map[string]any {
	f := fields{}
	f.str("size", i.Size)
	f.str("text", i.URL)
	return f
}

// Wiki is the biography or description attached to artists, albums,
// tracks and tags.
type Wiki struct {
	Published string
	Summary   string
	Content   string
}

func (w *Wiki) decode(a attrs) {
	w.Published = a.str("published")
	w.Summary = a.str("summary")
	w.Content = a.str("content")
}

// ToMap returns the populated fields of w.
func (w Wiki) ToMap() map[string]any {
	f := fields{}
	f.str("published", w.Published)
	f.str("summary", w.Summary)
	f.str("content", w.Content)
	return f
}

// Tag is a user-applied label such as "rock".
type Tag struct {
	origin

	Name     string
	URL      string
	Count    int // weight on an item, or uses in a chart
	Reach    int
	Taggings int
	Wiki     *Wiki
}

func (t *Tag) decode(a attrs) {
	t.Name = a.str("name")
	t.URL = a.str("url")
	t.Count = a.integer("count")
	if !a.has("count") {
		t.Count = a.integer("tag_count")
	}
	t.Reach = a.integer("reach")
	t.Taggings = a.integer("taggings")
	if !a.has("taggings") {
		t.Taggings = a.integer("total")
	}
	t.Wiki = decodeWiki(a)
}

// ToMap returns the populated fields of t.
func (t Tag) ToMap() map[string]any {
	f := fields{}
	f.str("name", t.Name)
	f.str("url", t.URL)
	f.integer("count", t.Count)
	f.integer("reach", t.Reach)
	f.integer("taggings", t.Taggings)
	if t.Wiki != nil {
		f.sub("wiki", t.Wiki.ToMap())
	}
	return f
}

// TagFromMap decodes a normalized tag object.
func TagFromMap(m map[string]any) Tag {
	var t Tag
	t.decode(attrs(m))
	return t
}

// User is a Last.fm account profile.
type User struct {
	origin

	Name       string
	RealName   string
	URL        string
	Country    string
	Age        int
	Gender     string
	Playcount  int
	Playlists  int
	Registered int64 // unix seconds
	Images     []Image
}

func (u *User) decode(a attrs) {
	u.Name = a.str("name")
	u.RealName = a.str("real_name")
	u.URL = a.str("url")
	u.Country = a.str("country")
	u.Age = a.integer("age")
	u.Gender = a.str("gender")
	u.Playcount = a.integer("playcount")
	u.Playlists = a.integer("playlists")
	u.Registered = decodeTimestamp(a["registered"])
	u.Images = decodeImages(a)
}

// ToMap returns the populated fields of u.
func (u User) ToMap() map[string]any {
	f := fields{}
	f.str("name", u.Name)
	f.str("real_name", u.RealName)
	f.str("url", u.URL)
	f.str("country", u.Country)
	f.integer("age", u.Age)
	f.str("gender", u.Gender)
	f.integer("playcount", u.Playcount)
	f.integer("playlists", u.Playlists)
	f.int64("registered", u.Registered)
	f.list("image", imagesToList(u.Images))
	return f
}

// UserFromMap decodes a normalized user object.
func UserFromMap(m map[string]any) User {
	var u User
	u.decode(attrs(m))
	return u
}

// Chart is one entry of a user's weekly chart list. FromDate and ToDate
// are unix timestamps as Last.fm sends them and can be passed back to the
// weekly chart methods.
type Chart struct {
	origin

	FromDate string
	ToDate   string
}

func (c *Chart) decode(a attrs) {
	c.FromDate = a.str("from_date")
	c.ToDate = a.str("to_date")
}

// ToMap returns the populated fields of c.
func (c Chart) ToMap() map[string]any {
	f := fields{}
	f.str("from_date", c.FromDate)
	f.str("to_date", c.ToDate)
	return f
}

// ChartFromMap decodes a normalized chart object.
func ChartFromMap(m map[string]any) Chart {
	var c Chart
	c.decode(attrs(m))
	return c
}

// Token represents an authentication token from auth.getToken.
type Token struct {
	Token string // The authentication token
}

// AuthSession represents an authenticated session from auth.getSession
// or auth.getMobileSession.
type AuthSession struct {
	origin

	Key      string // Session key for authenticated requests
	Username string // Last.fm username
}

func (s *AuthSession) decode(a attrs) {
	s.Key = a.str("key")
	s.Username = a.str("name")
}

// ToMap returns the populated fields of s.
func (s AuthSession) ToMap() map[string]any {
	f := fields{}
	f.str("key", s.Key)
	f.str("name", s.Username)
	return f
}

// RawResponse carries the payload of write operations that have no
// schema. Data is nil when Last.fm answered with an empty body.
type RawResponse struct {
	origin

	Data map[string]any
}

func decodeWiki(a attrs) *Wiki {
	w := a.sub("wiki")
	if w == nil {
		w = a.sub("bio")
	}
	if w == nil {
		return nil
	}
	var out Wiki
	out.decode(w)
	if out == (Wiki{}) {
		return nil
	}
	return &out
}

func decodeImages(a attrs) []Image {
	var images []Image
	for _, item := range a.list("image") {
		var img Image
		img.decode(asAttrs(item))
		if img.URL == "" {
			continue
		}
		images = append(images, img)
	}
	return images
}

func imagesToList(images []Image) []any {
	var out []any
	for _, img := range images {
		out = append(out, img.ToMap())
	}
	return out
}

func decodeTags(a attrs, key string) []Tag {
	var tags []Tag
	for _, item := range a.nested(key, "tag") {
		var t Tag
		if s, ok := item.(string); ok {
			t.Name = s
		} else {
			t.decode(asAttrs(item))
		}
		if t.Name != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func tagsToList(tags []Tag) []any {
	var out []any
	for _, t := range tags {
		out = append(out, t.ToMap())
	}
	return out
}

// decodeTimestamp reads unix seconds from a bare value or from a
// {timestamp, text} date object.
func decodeTimestamp(v any) int64 {
	if m, ok := v.(map[string]any); ok {
		if ts, ok := m["timestamp"]; ok {
			return int64Value(ts)
		}
		return int64Value(m["text"])
	}
	return int64Value(v)
}
