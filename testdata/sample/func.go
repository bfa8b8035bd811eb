package sample

func Run() string {
	return "sample"
}

func Add(a, b int) int {
	return a + b
}
