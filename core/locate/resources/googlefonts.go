package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/ethanz-code/font-subsetting/core"
	"github.com/ethanz-code/font-subsetting/core/font"
	"github.com/ethanz-code/font-subsetting/core/font/fontregistry"
	xfont "golang.org/x/image/font"
)

// GoogleFontsAPI is the endpoint of the Google Fonts developer API.
const GoogleFontsAPI = `https://www.googleapis.com/webfonts/v1/webfonts`

// GoogleFontInfo describes a font family of the Google Fonts directory.
type GoogleFontInfo struct {
	Family   string            `json:"family"`
	Version  string            `json:"version"`
	Variants []string          `json:"variants"`
	Subsets  []string          `json:"subsets"`
	Files    map[string]string `json:"files"`
}

// GoogleFontsDirectory is a listing of fonts available from Google Fonts.
type GoogleFontsDirectory struct {
	Items []GoogleFontInfo `json:"items"`
}

// LoadGoogleFontsDirectory requests the directory of fonts from the Google
// Fonts API at endpoint (usually GoogleFontsAPI). A missing API key results
// in an error of code core.EMISSING, failing requests in core.ECONNECTION.
func LoadGoogleFontsDirectory(ctx context.Context, client *http.Client, endpoint, apikey string) (
	*GoogleFontsDirectory, error) {
	//
	if apikey == "" {
		err := fmt.Errorf("Google API key not set")
		tracer().Errorf(err.Error())
		return nil, core.WrapError(err, core.EMISSING,
			`Google Fonts API-key must be set in configuration or as GOOGLE_API_KEY in environment;
      please refer to https://developers.google.com/fonts/docs/developer_api`)
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	values := url.Values{
		"sort": []string{"alpha"},
		"key":  []string{apikey},
	}
	resp, err := get(ctx, client, endpoint+"?"+values.Encode())
	if err != nil {
		tracer().Errorf("Google Fonts API request not OK: %v", err)
		return nil, err
	}
	defer resp.Body.Close()
	dir := &GoogleFontsDirectory{}
	if err = json.NewDecoder(resp.Body).Decode(dir); err != nil {
		return nil, core.WrapError(err, core.EINVALID,
			"could not decode fonts-list from Google font service")
	}
	tracer().Infof("%d fonts in Google Fonts directory", len(dir.Items))
	return dir, nil
}

// Descriptors converts the directory entries into font descriptors.
func (dir *GoogleFontsDirectory) Descriptors() []font.Descriptor {
	descs := make([]font.Descriptor, len(dir.Items))
	for i, info := range dir.Items {
		descs[i] = font.Descriptor{
			Family:   info.Family,
			Path:     info.Files["regular"],
			Variants: info.Variants,
			Files:    info.Files,
		}
	}
	return descs
}

// Find returns the family and the URL of the font variant closest to the
// given parameters. If no family matches pattern, an error of code
// core.EMISSING is returned.
func (dir *GoogleFontsDirectory) Find(pattern string, style xfont.Style, weight xfont.Weight) (
	GoogleFontInfo, string, error) {
	//
	desc, variant, confidence := fontregistry.ClosestMatch(dir.Descriptors(), pattern, style, weight)
	tracer().Debugf("closest Google font match confidence for %s|%s = %d", desc.Family, variant, confidence)
	if confidence == fontregistry.NoConfidence {
		return GoogleFontInfo{}, "", NotFound(pattern)
	}
	for _, info := range dir.Items {
		if info.Family == desc.Family {
			return info, info.Files[variant], nil
		}
	}
	return GoogleFontInfo{}, "", NotFound(pattern)
}

// List returns the entries with family names matching a pattern.
func (dir *GoogleFontsDirectory) List(pattern string) ([]GoogleFontInfo, error) {
	r, err := regexp.Compile(pattern)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "invalid pattern: %s", pattern)
	}
	var infos []GoogleFontInfo
	for _, info := range dir.Items {
		if r.MatchString(info.Family) {
			infos = append(infos, info)
		}
	}
	return infos, nil
}
