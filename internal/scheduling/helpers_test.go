package scheduling

func mustInterval(start, end string) TimeInterval {
	iv, err := ParseInterval(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}
