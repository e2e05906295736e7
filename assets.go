package main

import "embed"

// 대시보드 빌드 결과물
//
//go:embed all:web/dist
var WebDist embed.FS
