package ports

type PromptData struct {
    SrcLang      string
    TgtLang      string
    Context      string
    Comment      string
    Text         string
    Catalog      string
    Placeholders []string
    Tags         []string
}

type PromptRenderer interface {
    Render(typ, role string, data PromptData) (string, error)
}
