package model

type Player struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}
