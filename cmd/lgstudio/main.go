// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Command lgstudio serves the LG template table API and offers a few
// maintenance commands for importing, exporting and inspecting dialog
// template files.
package main

func main() {
	Execute()
}
