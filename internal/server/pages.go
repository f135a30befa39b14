package server

import "inkwell/internal/models"

// Template identifiers handed to the renderer.
const (
	tmplIndex      = "posts/index.html"
	tmplGroupList  = "posts/group_list.html"
	tmplProfile    = "posts/profile.html"
	tmplPostDetail = "posts/post_detail.html"
	tmplCreatePost = "posts/create_post.html"
	tmplFollow     = "posts/follow.html"
	tmplSignup     = "users/signup.html"
	tmplLogin      = "users/login.html"
	tmplLoggedOut  = "users/logged_out.html"
	tmplAboutAuth  = "about/author.html"
	tmplAboutTech  = "about/tech.html"
)

// nonFieldErrors keys form errors that belong to no single field.
const nonFieldErrors = "__all__"

// Post form labels as the templates display them.
const (
	labelText       = "Текст поста"
	labelGroup      = "Группа"
	labelGroupEmpty = "-Выберите группу-"
	labelImage      = "Картинка"
)

// FormField is one input of a rendered form.
type FormField struct {
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Required bool     `json:"required"`
	Errors   []string `json:"errors,omitempty"`
}

// GroupChoice is an option of the post form's group select.
type GroupChoice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// PostForm is the create and edit form for a post.
type PostForm struct {
	Text         FormField     `json:"text"`
	Group        FormField     `json:"group"`
	GroupChoices []GroupChoice `json:"group_choices"`
	Image        FormField     `json:"image"`
	// NonFieldErrors holds messages that belong to the form as a whole.
	NonFieldErrors []string `json:"non_field_errors,omitempty"`
}

// PostFormPage is the context for posts/create_post.html.
type PostFormPage struct {
	Form   PostForm     `json:"form"`
	IsEdit bool         `json:"is_edit"`
	Post   *models.Post `json:"post,omitempty"`
}

// CommentForm is the comment box under a post.
type CommentForm struct {
	Text FormField `json:"text"`
}

// PostDetailPage is the context for posts/post_detail.html.
type PostDetailPage struct {
	Post            *models.Post      `json:"post"`
	Comments        []*models.Comment `json:"comments"`
	Form            CommentForm       `json:"form"`
	ReaderIsAuthor  bool              `json:"reader_is_author"`
	AuthorPostCount int64             `json:"author_post_count"`
}

// AuthFormPage is the context for the signup and login pages.
type AuthFormPage struct {
	Form   map[string]string   `json:"form"`
	Errors map[string][]string `json:"errors,omitempty"`
	Next   string              `json:"next,omitempty"`
}

// AboutPage is the context for the static about pages.
type AboutPage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func newCommentForm(text string, errs []string) CommentForm {
	return CommentForm{Text: FormField{Label: "Комментарий", Value: text, Required: true, Errors: errs}}
}
