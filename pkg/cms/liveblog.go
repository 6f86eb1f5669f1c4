package cms

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/foomo/cmsfront/content"
	"github.com/foomo/cmsfront/pkg/navigate"
	"github.com/foomo/cmsfront/pkg/xmlcontent"
	"github.com/spf13/cast"
)

// PostEvent sports event announced by a liveblog post
type PostEvent string

const (
	PostEventNone       PostEvent = ""
	PostEventGoal       PostEvent = "goal"
	PostEventRedCard    PostEvent = "red-card"
	PostEventPenalty    PostEvent = "penalty"
	PostEventMatchStart PostEvent = "match-start"
	PostEventMatchEnd   PostEvent = "match-end"
)

// AvatarPath path of reporter pictures
const AvatarPath = "/static/img/avatars/"

type (
	// LiveblogPost a shaped liveblog post
	LiveblogPost struct {
		ID     string          `json:"id"`
		Event  PostEvent       `json:"event,omitempty"`
		Sticky bool            `json:"sticky,omitempty"`
		Author *Author         `json:"author,omitempty"`
		Helper *content.Helper `json:"helper"`
		Data   *content.Object `json:"data"`
	}
	// Author reporter or ambassador writing a post
	Author struct {
		ID         string `json:"id,omitempty"`
		Name       string `json:"name"`
		Role       string `json:"role,omitempty"`
		Picture    string `json:"picture,omitempty"`
		Ambassador bool   `json:"ambassador,omitempty"`
	}
)

// LiveblogPostEvent maps the event type code of a post
func LiveblogPostEvent(post *content.Object) PostEvent {
	if post == nil {
		return PostEventNone
	}
	code, _ := navigate.String(post.Attributes, "liveblogPostData", "eventType")
	switch code {
	case "3":
		return PostEventGoal
	case "2":
		return PostEventRedCard
	case "5":
		return PostEventPenalty
	case "13":
		return PostEventMatchStart
	case "14":
		return PostEventMatchEnd
	default:
		return PostEventNone
	}
}

// LiveblogReporters neutral reporters configured on a liveblog
func LiveblogReporters(liveblog *content.Object) []*Author {
	if liveblog == nil {
		return nil
	}
	records, _ := navigate.Slice(liveblog.Attributes, "liveblogData", "lbNeutralReporters")
	ret := make([]*Author, 0, len(records))
	for _, record := range records {
		id, ok := navigate.String(record, "lbNeutralReporterId")
		if !ok {
			continue
		}
		name, _ := navigate.String(record, "lbNeutralReporterName")
		role, _ := navigate.String(record, "lbNeutralReporterRole")
		ret = append(ret, &Author{
			ID:      id,
			Name:    name,
			Role:    role,
			Picture: AvatarPath + id + ".jpg",
		})
	}
	return ret
}

// LiveblogAmbassadors ambassadors listed in the gallery of a liveblog content
func LiveblogAmbassadors(helper *content.Helper) []*Author {
	if helper == nil || helper.Content == nil {
		return nil
	}
	gallery := helper.Content.First("div")
	if gallery == nil {
		return nil
	}
	var ret []*Author
	for _, el := range gallery.ChildElements() {
		name := xmlcontent.Text(el.SelectElement("person"))
		if name == "" {
			continue
		}
		author := &Author{
			Name:       name,
			Role:       xmlcontent.Text(el.SelectElement("description")),
			Ambassador: true,
		}
		for _, img := range el.SelectElements("img") {
			if img.SelectAttrValue("class", "") == "square" {
				author.Picture = img.SelectAttrValue("src", "")
				break
			}
		}
		ret = append(ret, author)
	}
	return ret
}

// ShapeLiveblogPost resolves the event, the author and the content of a post.
// Ambassadors are matched by name first, reporters by the creator id unless the
// post is forced neutral.
func (s *Shaper) ShapeLiveblogPost(post *content.Object, reporters, ambassadors []*Author) *LiveblogPost {
	if post == nil {
		return nil
	}
	sticky, _ := navigate.Get(post.Attributes, "liveblogPostData", "isSticky")
	ret := &LiveblogPost{
		ID:     post.ID,
		Event:  LiveblogPostEvent(post),
		Sticky: cast.ToBool(sticky),
		Helper: s.GetLiveblogPostHelper(post),
		Data:   post,
	}
	if name, ok := navigate.String(post.Attributes, "liveblogPostData", "postAmbassador"); ok {
		ret.Author = findAuthor(ambassadors, func(a *Author) bool { return a.Name == name })
	}
	if ret.Author == nil {
		forceNeutral, _ := navigate.Get(post.Attributes, "liveblogPostData", "forceNeutral")
		if creator, ok := navigate.String(post.Attributes, "creator"); ok && !cast.ToBool(forceNeutral) {
			id := creator[strings.LastIndex(creator, ":")+1:]
			ret.Author = findAuthor(reporters, func(a *Author) bool { return a.ID == id })
		}
	}
	return ret
}

// PostArticle the article element of a post content
func PostArticle(post *LiveblogPost) *etree.Element {
	if post == nil || post.Helper == nil {
		return nil
	}
	return post.Helper.Content.First("article")
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func findAuthor(authors []*Author, match func(a *Author) bool) *Author {
	for _, author := range authors {
		if author != nil && match(author) {
			return author
		}
	}
	return nil
}
