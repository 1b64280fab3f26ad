package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// CaptionTrack describes one available caption track for a video, in a form
// common to both API shapes.
type CaptionTrack struct {
	Language  string
	Name      string
	Generated bool
	fetchURL  string
}

// CaptionAPI is one upstream caption API shape. YouTube exposes the same
// logical operation through two incompatible surfaces; the fetcher probes
// which one responds on every call.
type CaptionAPI interface {
	Name() string
	ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)
	FetchTrack(ctx context.Context, track CaptionTrack) ([]Segment, error)
}

var (
	_ CaptionAPI = (*InnertubeClient)(nil)
	_ CaptionAPI = (*TimedTextClient)(nil)
)

const (
	innertubeEndpoint = "https://www.youtube.com/youtubei/v1/player"
	timedTextEndpoint = "https://video.google.com/timedtext"
)

// InnertubeClient talks to the JSON player endpoint (the modern API shape):
// a POST with a client context, answered with a player response carrying
// playability status and the caption track list.
type InnertubeClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewInnertubeClient creates a player-endpoint caption client.
func NewInnertubeClient(httpClient *http.Client) *InnertubeClient {
	return &InnertubeClient{httpClient: httpClient, endpoint: innertubeEndpoint}
}

func (c *InnertubeClient) Name() string { return "innertube" }

type innertubeRequest struct {
	VideoID string           `json:"videoId"`
	Context innertubeContext `json:"context"`
}

type innertubeContext struct {
	Client innertubeClientInfo `json:"client"`
}

type innertubeClientInfo struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
}

type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		Renderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
				Kind         string `json:"kind"`
				Name         struct {
					SimpleText string `json:"simpleText"`
				} `json:"name"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// ListTracks fetches the player response and extracts the caption tracks.
// Playability problems are classified here, where the signal lives.
func (c *InnertubeClient) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	payload, err := json.Marshal(innertubeRequest{
		VideoID: videoID,
		Context: innertubeContext{
			Client: innertubeClientInfo{
				ClientName:    "ANDROID",
				ClientVersion: "20.10.38",
				HL:            "en",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding player request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling player endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden {
		return nil, NewTranscriptError(IPRestricted, videoID, fmt.Errorf("player endpoint returned %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: player endpoint returned %d", errUnsupportedShape, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading player response: %w", err)
	}

	var pr playerResponse
	if err := json.Unmarshal(body, &pr); err != nil || pr.PlayabilityStatus.Status == "" {
		return nil, fmt.Errorf("%w: not a player response", errUnsupportedShape)
	}

	switch pr.PlayabilityStatus.Status {
	case "OK":
	case "LOGIN_REQUIRED":
		return nil, NewTranscriptError(PrivateVideo, videoID, fmt.Errorf("playability: %s", pr.PlayabilityStatus.Reason))
	case "UNPLAYABLE", "ERROR":
		return nil, NewTranscriptError(PrivateVideo, videoID, fmt.Errorf("playability: %s", pr.PlayabilityStatus.Reason))
	default:
		return nil, fmt.Errorf("%w: unknown playability status %q", errUnsupportedShape, pr.PlayabilityStatus.Status)
	}

	if pr.Captions == nil {
		// Video is playable but carries no caption block at all.
		return nil, NewTranscriptError(CaptionsDisabled, videoID, nil)
	}

	tracks := make([]CaptionTrack, 0, len(pr.Captions.Renderer.CaptionTracks))
	for _, t := range pr.Captions.Renderer.CaptionTracks {
		tracks = append(tracks, CaptionTrack{
			Language:  t.LanguageCode,
			Name:      t.Name.SimpleText,
			Generated: t.Kind == "asr",
			fetchURL:  t.BaseURL + "&fmt=json3",
		})
	}
	return tracks, nil
}

type json3Events struct {
	Events []struct {
		TStartMs int64 `json:"tStartMs"`
		Segs     []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// FetchTrack downloads one track in json3 form and converts it to segments.
func (c *InnertubeClient) FetchTrack(ctx context.Context, track CaptionTrack) ([]Segment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building caption request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: caption download returned %d", errUnsupportedShape, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading captions: %w", err)
	}

	var events json3Events
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("%w: not a json3 caption payload", errUnsupportedShape)
	}

	var segments []Segment
	for _, ev := range events.Events {
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Start: float64(ev.TStartMs) / 1000,
			Text:  text,
		})
	}
	return segments, nil
}

// TimedTextClient talks to the legacy timedtext endpoint (the old API
// shape): plain GETs answered with XML documents.
type TimedTextClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewTimedTextClient creates a legacy timedtext caption client.
func NewTimedTextClient(httpClient *http.Client) *TimedTextClient {
	return &TimedTextClient{httpClient: httpClient, endpoint: timedTextEndpoint}
}

func (c *TimedTextClient) Name() string { return "timedtext" }

type timedTextList struct {
	XMLName xml.Name `xml:"transcript_list"`
	Tracks  []struct {
		LangCode string `xml:"lang_code,attr"`
		Name     string `xml:"name,attr"`
		Kind     string `xml:"kind,attr"`
	} `xml:"track"`
}

// ListTracks asks the legacy endpoint for the track list. The endpoint
// answers an empty body both for missing and for disabled captions, so only
// NoTranscriptAvailable can be reported from here.
func (c *TimedTextClient) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	listURL := fmt.Sprintf("%s?type=list&v=%s", c.endpoint, url.QueryEscape(videoID))
	body, status, err := c.get(ctx, listURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusTooManyRequests || status == http.StatusForbidden {
		return nil, NewTranscriptError(IPRestricted, videoID, fmt.Errorf("timedtext returned %d", status))
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: timedtext returned %d", errUnsupportedShape, status)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, NewTranscriptError(NoTranscriptAvailable, videoID, nil)
	}

	var list timedTextList
	if err := xml.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: not a transcript list", errUnsupportedShape)
	}

	tracks := make([]CaptionTrack, 0, len(list.Tracks))
	for _, t := range list.Tracks {
		fetchURL := fmt.Sprintf("%s?v=%s&lang=%s", c.endpoint, url.QueryEscape(videoID), url.QueryEscape(t.LangCode))
		if t.Name != "" {
			fetchURL += "&name=" + url.QueryEscape(t.Name)
		}
		if t.Kind != "" {
			fetchURL += "&kind=" + url.QueryEscape(t.Kind)
		}
		tracks = append(tracks, CaptionTrack{
			Language:  t.LangCode,
			Name:      t.Name,
			Generated: t.Kind == "asr",
			fetchURL:  fetchURL,
		})
	}
	return tracks, nil
}

type timedTextBody struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start float64 `xml:"start,attr"`
		Text  string  `xml:",chardata"`
	} `xml:"text"`
}

// FetchTrack downloads one track as XML and converts it to segments.
func (c *TimedTextClient) FetchTrack(ctx context.Context, track CaptionTrack) ([]Segment, error) {
	body, status, err := c.get(ctx, track.fetchURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: timedtext track returned %d", errUnsupportedShape, status)
	}

	var doc timedTextBody
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: not a timedtext document", errUnsupportedShape)
	}

	var segments []Segment
	for _, t := range doc.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Text))
		if text == "" {
			continue
		}
		// Caption text may span lines inside one cue.
		text = strings.Join(strings.Fields(text), " ")
		segments = append(segments, Segment{Start: t.Start, Text: text})
	}
	return segments, nil
}

func (c *TimedTextClient) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building timedtext request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("calling timedtext endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading timedtext response: %w", err)
	}
	return body, resp.StatusCode, nil
}
