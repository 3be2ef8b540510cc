package lastfm

// Artist is a performer as described by artist.* and the top lists.
type Artist struct {
	origin

	Name          string
	MBID          string
	URL           string
	Listeners     int
	Playcount     int
	UserPlaycount int
	Rank          int
	Match         float64 // similarity, only set by getSimilar
	OnTour        bool
	Images        []Image
	Tags          []Tag
	Similar       []Artist
	Wiki          *Wiki
}

// decode reshapes the artist variants Last.fm sends: correction envelopes
// from artist.getCorrection, stats nested under "stats", the biography
// under "bio", and bare name strings.
func (ar *Artist) decode(a attrs) {
	if c := a.sub("correction"); c != nil {
		if inner := c.sub("artist"); inner != nil {
			a = inner
		}
	}

	ar.Name = a.str("name")
	ar.MBID = a.str("mbid")
	ar.URL = a.str("url")
	ar.Listeners = a.integer("listeners")
	ar.Playcount = a.integer("playcount")
	ar.UserPlaycount = a.integer("user_playcount")
	if stats := a.sub("stats"); stats != nil {
		ar.Listeners = stats.integer("listeners")
		ar.Playcount = stats.integer("playcount")
		if stats.has("user_playcount") {
			ar.UserPlaycount = stats.integer("user_playcount")
		}
	}
	ar.Rank = decodeRank(a)
	ar.Match = a.float("match")
	ar.OnTour = a.boolean("on_tour")
	ar.Images = decodeImages(a)
	ar.Tags = decodeTags(a, "tags")
	ar.Wiki = decodeWiki(a)

	for _, item := range a.nested("similar", "artist") {
		var s Artist
		s.decode(asAttrs(item))
		ar.Similar = append(ar.Similar, s)
	}
}

// ToMap returns the populated fields of ar.
func (ar Artist) ToMap() map[string]any {
	f := fields{}
	f.str("name", ar.Name)
	f.str("mbid", ar.MBID)
	f.str("url", ar.URL)
	f.integer("listeners", ar.Listeners)
	f.integer("playcount", ar.Playcount)
	f.integer("user_playcount", ar.UserPlaycount)
	f.integer("rank", ar.Rank)
	f.float("match", ar.Match)
	f.boolean("on_tour", ar.OnTour)
	f.list("image", imagesToList(ar.Images))
	f.list("tags", tagsToList(ar.Tags))
	var similar []any
	for _, s := range ar.Similar {
		similar = append(similar, s.ToMap())
	}
	f.list("similar", similar)
	if ar.Wiki != nil {
		f.sub("wiki", ar.Wiki.ToMap())
	}
	return f
}

// ArtistFromMap decodes a normalized artist object.
func ArtistFromMap(m map[string]any) Artist {
	var ar Artist
	ar.decode(attrs(m))
	return ar
}

// decodeArtistRef reads the artist of a track or album, which Last.fm
// sends as a bare name, a {text, mbid} wrapper or a full object.
func decodeArtistRef(v any) *Artist {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		ar := ArtistFromMap(t)
		if ar.Name == "" {
			ar.Name = attrs(t).str("text")
		}
		if ar.Name == "" && ar.MBID == "" {
			return nil
		}
		return &ar
	default:
		name := stringValue(t)
		if name == "" {
			return nil
		}
		return &Artist{Name: name}
	}
}

// Album is a release by an artist.
type Album struct {
	origin

	Name          string
	Artist        *Artist
	MBID          string
	URL           string
	Listeners     int
	Playcount     int
	UserPlaycount int
	Rank          int
	Images        []Image
	Tags          []Tag
	Tracks        []Track
	Wiki          *Wiki
}

func (al *Album) decode(a attrs) {
	al.Name = a.str("name")
	al.Artist = decodeArtistRef(a["artist"])
	al.MBID = a.str("mbid")
	al.URL = a.str("url")
	al.Listeners = a.integer("listeners")
	al.Playcount = a.integer("playcount")
	al.UserPlaycount = a.integer("user_playcount")
	al.Rank = decodeRank(a)
	al.Images = decodeImages(a)
	al.Tags = decodeTags(a, "tags")
	al.Wiki = decodeWiki(a)

	for _, item := range a.nested("tracks", "track") {
		var t Track
		t.decode(asAttrs(item))
		al.Tracks = append(al.Tracks, t)
	}
}

// ToMap returns the populated fields of al.
func (al Album) ToMap() map[string]any {
	f := fields{}
	f.str("name", al.Name)
	if al.Artist != nil {
		f.sub("artist", al.Artist.ToMap())
	}
	f.str("mbid", al.MBID)
	f.str("url", al.URL)
	f.integer("listeners", al.Listeners)
	f.integer("playcount", al.Playcount)
	f.integer("user_playcount", al.UserPlaycount)
	f.integer("rank", al.Rank)
	f.list("image", imagesToList(al.Images))
	f.list("tags", tagsToList(al.Tags))
	var tracks []any
	for _, t := range al.Tracks {
		tracks = append(tracks, t.ToMap())
	}
	f.list("tracks", tracks)
	if al.Wiki != nil {
		f.sub("wiki", al.Wiki.ToMap())
	}
	return f
}

// AlbumFromMap decodes a normalized album object.
func AlbumFromMap(m map[string]any) Album {
	var al Album
	al.decode(attrs(m))
	return al
}

// decodeAlbumRef reads the album of a track: an object from track.getInfo,
// a {text, mbid} wrapper from recent tracks, or a bare name.
func decodeAlbumRef(v any) *Album {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		a := attrs(t)
		al := AlbumFromMap(t)
		if al.Name == "" {
			al.Name = a.str("text")
		}
		if al.Name == "" && al.MBID == "" {
			return nil
		}
		return &al
	default:
		name := stringValue(t)
		if name == "" {
			return nil
		}
		return &Album{Name: name}
	}
}

// Track is a song, as returned by track.getInfo, searches, charts and
// listening history.
type Track struct {
	origin

	Name          string
	MBID          string
	URL           string
	Artist        *Artist
	Album         *Album
	Duration      int // as reported: milliseconds for getInfo, seconds in album listings
	Listeners     int
	Playcount     int
	UserPlaycount int
	Rank          int
	Match         float64
	Loved         bool
	NowPlaying    bool
	Timestamp     int64 // unix seconds of the scrobble, for listening history
	Images        []Image
	Tags          []Tag
	Wiki          *Wiki
}

// decode handles the track shapes: correction envelopes, artists given as
// strings or {text, mbid} wrappers, "loved" flags sent as "1"/"0", play
// dates under "date" and the now-playing marker under "attr".
func (t *Track) decode(a attrs) {
	if c := a.sub("correction"); c != nil {
		if inner := c.sub("track"); inner != nil {
			a = inner
		}
	}

	t.Name = a.str("name")
	t.MBID = a.str("mbid")
	t.URL = a.str("url")
	t.Artist = decodeArtistRef(a["artist"])
	t.Album = decodeAlbumRef(a["album"])
	t.Duration = a.integer("duration")
	t.Listeners = a.integer("listeners")
	t.Playcount = a.integer("playcount")
	t.UserPlaycount = a.integer("user_playcount")
	t.Rank = decodeRank(a)
	t.Match = a.float("match")
	t.Loved = a.boolean("loved")
	t.NowPlaying = a.boolean("now_playing") || a.sub("attr").boolean("nowplaying")
	t.Timestamp = a.int64("timestamp")
	if date := a["date"]; date != nil {
		t.Timestamp = decodeTimestamp(date)
	}
	t.Images = decodeImages(a)
	t.Tags = decodeTags(a, "toptags")
	if t.Tags == nil {
		t.Tags = decodeTags(a, "tags")
	}
	t.Wiki = decodeWiki(a)
}

// ToMap returns the populated fields of t.
func (t Track) ToMap() map[string]any {
	f := fields{}
	f.str("name", t.Name)
	f.str("mbid", t.MBID)
	f.str("url", t.URL)
	if t.Artist != nil {
		f.sub("artist", t.Artist.ToMap())
	}
	if t.Album != nil {
		f.sub("album", t.Album.ToMap())
	}
	f.integer("duration", t.Duration)
	f.integer("listeners", t.Listeners)
	f.integer("playcount", t.Playcount)
	f.integer("user_playcount", t.UserPlaycount)
	f.integer("rank", t.Rank)
	f.float("match", t.Match)
	f.boolean("loved", t.Loved)
	f.boolean("now_playing", t.NowPlaying)
	f.int64("timestamp", t.Timestamp)
	f.list("image", imagesToList(t.Images))
	f.list("tags", tagsToList(t.Tags))
	if t.Wiki != nil {
		f.sub("wiki", t.Wiki.ToMap())
	}
	return f
}

// TrackFromMap decodes a normalized track object.
func TrackFromMap(m map[string]any) Track {
	var t Track
	t.decode(attrs(m))
	return t
}

// decodeRank reads the chart position, which top lists put under
// attr.rank.
func decodeRank(a attrs) int {
	if a.has("rank") {
		return a.integer("rank")
	}
	return a.sub("attr").integer("rank")
}
