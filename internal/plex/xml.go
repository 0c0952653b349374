package plex

import "encoding/xml"

// Numeric attributes are kept as strings and parsed leniently so one malformed
// value never fails a whole response.

// mediaContainer is the root element of every Plex XML response.
type mediaContainer struct {
	XMLName      xml.Name       `xml:"MediaContainer"`
	FriendlyName string         `xml:"friendlyName,attr"`
	Version      string         `xml:"version,attr"`
	Directories  []directoryXML `xml:"Directory"` // sections, shows, seasons
	Videos       []videoXML     `xml:"Video"`     // movies, episodes
}

type directoryXML struct {
	Key       string `xml:"key,attr"`
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	Type      string `xml:"type,attr"`
	Index     string `xml:"index,attr"`
	Year      string `xml:"year,attr"`
}

type videoXML struct {
	RatingKey string     `xml:"ratingKey,attr"`
	Title     string     `xml:"title,attr"`
	Year      string     `xml:"year,attr"`
	Index     string     `xml:"index,attr"`
	Duration  string     `xml:"duration,attr"` // milliseconds
	Media     []mediaXML `xml:"Media"`
}

type mediaXML struct {
	VideoResolution string    `xml:"videoResolution,attr"`
	VideoCodec      string    `xml:"videoCodec,attr"`
	Width           string    `xml:"width,attr"`
	Height          string    `xml:"height,attr"`
	Parts           []partXML `xml:"Part"`
}

type partXML struct {
	Size    string      `xml:"size,attr"`
	Streams []streamXML `xml:"Stream"`
}

type streamXML struct {
	StreamType   string `xml:"streamType,attr"`
	LanguageCode string `xml:"languageCode,attr"`
	Language     string `xml:"language,attr"`
	Codec        string `xml:"codec,attr"`
	Channels     string `xml:"channels,attr"`
}

// firstMedia returns the first Media element and its first Part, either may be nil.
func (v videoXML) firstMedia() (*mediaXML, *partXML) {
	if len(v.Media) == 0 {
		return nil, nil
	}
	m := &v.Media[0]
	if len(m.Parts) == 0 {
		return m, nil
	}
	return m, &m.Parts[0]
}
